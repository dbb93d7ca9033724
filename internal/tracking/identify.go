package tracking

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/darkkaiser/kepixel-server/internal/analytics"
	"github.com/darkkaiser/kepixel-server/internal/host"
	"github.com/darkkaiser/kepixel-server/pkg/strutil"
	"github.com/iancoleman/strcase"
)

// customTraitPrefix 이 접두사로 시작하는 사용자 메타는 접두사를 제거하고 camelCase로 바꾼 이름의 속성으로 추가됩니다.
const customTraitPrefix = "kepixel_trait_"

var (
	// embeddedPhonePattern 이메일이나 로그인 ID에 포함된 국제 전화번호 형식입니다.
	embeddedPhonePattern = regexp.MustCompile(`\+\d{7,15}`)

	// numericLoginPattern 전화번호로 가입한 로그인 ID 형식입니다.
	numericLoginPattern = regexp.MustCompile(`^\d{10,15}$`)
)

// Identify 로그인한 방문자의 identify 호출 인자를 생성합니다. 로그인하지 않았으면 ok는 false입니다.
//
// id와 email은 항상 포함되며, 나머지 속성은 값이 있을 때만 포함됩니다.
func (b *Builder) Identify(visitor host.Visitor) (*Identity, bool) {
	if !visitor.LoggedIn() {
		return nil, false
	}
	u := visitor.User

	userID := strconv.FormatInt(u.ID, 10)
	traits := analytics.Traits{
		"id":    userID,
		"email": u.Email,
	}

	firstName := strutil.FirstNonEmpty(u.FirstName, u.Nicename, u.DisplayName, u.Nickname)
	lastName := u.LastName
	setIfPresent(traits, "firstName", firstName)
	setIfPresent(traits, "lastName", lastName)
	setIfPresent(traits, "name", strings.TrimSpace(firstName+" "+lastName))

	if age := u.MetaValue("age"); present(age) {
		traits["age"] = intval(age)
	}

	phone := strutil.FirstNonEmpty(u.MetaValue("phone"), u.MetaValue("billing_phone"))
	if phone == "" {
		phone = extractPhone(u.Email, u.Login)
	}
	setIfPresent(traits, "phone", phone)

	if address := b.userAddress(u); len(address) > 0 {
		traits["address"] = address
	}
	setIfPresent(traits, "birthday", u.MetaValue("birthday"))
	if company := b.userCompany(u); len(company) > 0 {
		traits["company"] = company
	}

	setIfPresent(traits, "createdAt", u.Registered)
	setIfPresent(traits, "description", u.Description)
	setIfPresent(traits, "gender", u.MetaValue("gender"))
	setIfPresent(traits, "title", u.MetaValue("title"))
	setIfPresent(traits, "username", u.Login)
	setIfPresent(traits, "website", u.URL)
	setIfPresent(traits, "avatar", u.Avatar)

	if b.site.WooCommerce && u.Customer != nil {
		if u.Customer.IsPayingCustomer {
			traits["isPayingCustomer"] = true
		}
		if u.Customer.TotalSpent.IsPositive() {
			traits["totalSpent"] = money(u.Customer.TotalSpent)
		}
		if u.Customer.OrderCount > 0 {
			traits["orderCount"] = u.Customer.OrderCount
		}
	}

	for key, value := range customTraits(u) {
		if _, exists := traits[key]; !exists {
			traits[key] = value
		}
	}

	return &Identity{UserID: userID, Traits: traits}, true
}

// userAddress 청구지 주소를 사용하되, 청구지 첫 줄이 비어있고 쇼핑몰이 활성화되어 있으면 배송지 주소를 사용합니다.
func (b *Builder) userAddress(u *host.User) map[string]any {
	prefix := "billing_"
	if u.MetaValue("billing_address_1") == "" && b.site.WooCommerce && u.MetaValue("shipping_address_1") != "" {
		prefix = "shipping_"
	}

	address := map[string]any{}
	setIfPresent(address, "street", strings.TrimSpace(u.MetaValue(prefix+"address_1")+" "+u.MetaValue(prefix+"address_2")))
	setIfPresent(address, "city", u.MetaValue(prefix+"city"))
	setIfPresent(address, "state", u.MetaValue(prefix+"state"))
	setIfPresent(address, "postalCode", u.MetaValue(prefix+"postcode"))
	setIfPresent(address, "country", u.MetaValue(prefix+"country"))

	return address
}

func (b *Builder) userCompany(u *host.User) map[string]any {
	name := strutil.FirstNonEmpty(u.MetaValue("billing_company"), u.MetaValue("company_name"))
	if name == "" && b.site.WooCommerce {
		name = u.MetaValue("shipping_company")
	}

	company := map[string]any{}
	setIfPresent(company, "name", name)
	setIfPresent(company, "id", u.MetaValue("company_id"))
	setIfPresent(company, "industry", u.MetaValue("company_industry"))
	if count := u.MetaValue("company_employee_count"); present(count) {
		company["employee_count"] = intval(count)
	}
	setIfPresent(company, "plan", u.MetaValue("company_plan"))

	return company
}

// customTraits kepixel_trait_ 접두사 메타를 camelCase 속성으로 변환합니다.
func customTraits(u *host.User) map[string]string {
	traits := make(map[string]string)
	for key := range u.Meta {
		if !strings.HasPrefix(key, customTraitPrefix) {
			continue
		}

		name := strcase.ToLowerCamel(strings.TrimPrefix(key, customTraitPrefix))
		if name == "" {
			continue
		}
		if value := u.MetaValue(key); value != "" {
			traits[name] = value
		}
	}
	return traits
}

// extractPhone 이메일, 로그인 ID 순서로 '+'로 시작하는 전화번호를 찾고,
// 없으면 숫자로만 이루어진 10~15자리 로그인 ID를 전화번호로 간주합니다.
func extractPhone(email, login string) string {
	if m := embeddedPhonePattern.FindString(email); m != "" {
		return m
	}
	if m := embeddedPhonePattern.FindString(login); m != "" {
		return m
	}
	if numericLoginPattern.MatchString(login) {
		return login
	}
	return ""
}

func setIfPresent[M ~map[string]any](m M, key, value string) {
	if present(value) {
		m[key] = value
	}
}

// present 값이 비어있지 않은지 판단합니다. 호스트가 미입력 값을 "0"으로 전달하는 경우도 비어있는 것으로 봅니다.
func present(value string) bool {
	return value != "" && value != "0"
}

// intval 문자열 앞부분의 정수를 읽습니다. 정수로 시작하지 않으면 0을 반환합니다.
func intval(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
