package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/config"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/internal/markup"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
	"github.com/darkkaiser/kepixel-server/internal/service/api/auth"
	"github.com/darkkaiser/kepixel-server/internal/service/api/httputil"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/request"
	"github.com/darkkaiser/kepixel-server/internal/service/api/v1/model/response"
	"github.com/darkkaiser/kepixel-server/internal/store"
	applog "github.com/darkkaiser/kepixel-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// FormSubmissionHandler godoc
// @Summary 문의 양식 제출 기록
// @Description JavaScript 없이 양식을 처리하는 호스트가 제출된 양식 HTML을 전달하면 양식별 "Form Submitted" 이벤트를 생성합니다.
// @Description 대상 양식: Contact Form 7(form.wpcf7-form), Elementor(form.elementor-form)
// @Description
// @Description 사이트의 추적이 활성화되어 있고 쓰기 키가 설정되어 있으면 이벤트는 전송 대기열에 추가되어 수집 서버로 전달됩니다.
// @Tags Forms
// @Accept json
// @Produce json
// @Param X-Site-Id header string false "사이트 ID" example(my-shop)
// @Param X-Api-Key header string true "사이트 API 키"
// @Param request body request.FormSubmissionRequest true "제출된 양식"
// @Success 200 {object} response.FormSubmissionResponse "생성된 이벤트"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 503 {object} response.ErrorResponse "저장소 오류"
// @Security ApiKeyAuth
// @Router /api/v1/forms/submissions [post]
func (h *Handler) FormSubmissionHandler(c echo.Context) error {
	site := auth.MustGetSite(c)

	req := new(request.FormSubmissionRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	if err := checkSiteID(req.SiteID, site); err != nil {
		return err
	}

	ctx := c.Request().Context()

	submissions, err := markup.ParseForms(ctx, strings.NewReader(req.HTML), markup.FormPage{
		URL:    req.URL,
		Title:  req.Title,
		Status: req.Status,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.InvalidInput) {
			return NewErrInvalidInput(err)
		}
		return httputil.NewBadRequestError("양식 HTML을 처리할 수 없습니다")
	}

	builder := h.builder(site, host.Site{})
	events := make([]analytics.Event, 0, len(submissions))
	for _, sub := range submissions {
		events = append(events, builder.FormSubmitted(sub))
	}

	queued := 0
	if site.TrackingEnabled() && site.WriteKey != "" && len(events) > 0 {
		queued, err = h.enqueueEvents(ctx, site, req.UserID, events)
		if err != nil {
			h.log(c).WithFields(applog.Fields{
				"site_id": site.ID,
				"events":  len(events),
				"error":   err,
			}).Error("양식 제출 이벤트를 전송 대기열에 추가하지 못했습니다")

			return NewErrStorageUnavailable()
		}
	}

	h.log(c).WithFields(applog.Fields{
		"site_id": site.ID,
		"forms":   len(events),
		"queued":  queued,
	}).Info("양식 제출 기록 완료")

	return c.JSON(http.StatusOK, response.FormSubmissionResponse{Events: events, Queued: queued})
}

// enqueueEvents 이벤트를 track 호출로 변환하여 전송 대기열에 추가합니다.
func (h *Handler) enqueueEvents(ctx context.Context, site *config.SiteConfig, userID string, events []analytics.Event) (int, error) {
	var records []store.Record

	client := analytics.NewClient(
		analytics.TransportFunc(func(_ context.Context, call analytics.Call) error {
			call.UserID = userID
			records = append(records, store.NewRecord(site.ID, call, call.Timestamp))
			return nil
		}),
		analytics.WithObserver(h.metrics.ObserveCall),
	)

	for _, e := range events {
		if err := client.TrackEvent(ctx, e); err != nil {
			return 0, err
		}
	}

	if err := h.store.Enqueue(ctx, records...); err != nil {
		return 0, err
	}

	return len(records), nil
}
