package tracking

import (
	"strings"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
)

// ProductsSearched 검색 결과 페이지의 "Products Searched" 이벤트를 생성합니다.
func (b *Builder) ProductsSearched(query string) (analytics.Event, bool) {
	query = strings.TrimSpace(query)

	return analytics.Event{
		Name: EventProductsSearched,
		Properties: analytics.Properties{
			"query":        query,
			"content_type": ContentTypeSearch,
			"content_id":   query,
		},
	}, true
}
