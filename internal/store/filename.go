package store

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// maxNamePartBytes 파일명에서 사람이 읽을 수 있는 부분의 최대 바이트 수
const maxNamePartBytes = 80

// generateFilename 저장소 키를 파일명으로 바꿉니다.
//
// 키의 "/" 구분 세그먼트를 각각 kebab-case로 정제해 "."으로 잇고, 원본 키의 64비트 FNV 해시를 덧붙입니다.
// 정제로 서로 다른 키가 같은 이름이 되더라도 해시로 구분되며 ".."이나 경로 구분자는 이름에 남지 않습니다.
//
//	generateFilename("kv", "catalog/shop/42", ".json") → "kv-catalog.shop.42-<16자리 해시>.json"
func generateFilename(prefix, key, ext string) string {
	segments := strings.Split(key, "/")
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if s := sanitizeSegment(seg); s != "" {
			parts = append(parts, s)
		}
	}
	readable := truncateByBytes(strings.Join(parts, "."), maxNamePartBytes)

	h := fnv.New64a()
	_, _ = h.Write([]byte(key))

	return fmt.Sprintf("%s-%s-%016x%s", prefix, readable, h.Sum64(), ext)
}

// sanitizeSegment 키 세그먼트 하나를 kebab-case로 바꾸고 문자, 숫자 외의 문자는 하이픈으로 치환합니다.
// 양 끝의 하이픈은 제거하므로 ".." 같은 세그먼트는 빈 문자열이 됩니다.
func sanitizeSegment(seg string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, strcase.ToKebab(seg))

	return strings.Trim(mapped, "-")
}

// truncateByBytes limit 바이트를 넘지 않도록 자르되 멀티바이트 문자를 중간에서 자르지 않습니다.
func truncateByBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
