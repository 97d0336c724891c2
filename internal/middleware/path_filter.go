package middleware

import (
	"strings"
)

// PathFilter, request timer'ın hangi path'leri loglayacağını belirler.
// Fragment'lar inşa sırasında bir kez küçük harfe çevrilir ve tekilleştirilir;
// sonrasında yalnızca okunur, bu yüzden kilit gerektirmez.
//
// Eşleşme kasıtlı olarak gevşektir: path'in küçük harfli hali herhangi bir
// fragment'ı alt dizge olarak içeriyorsa eşleşir ("login", "/api/auth/login"
// ve "/LOGIN/x" ile eşleşir).
type PathFilter struct {
	fragments []string
}

// NewPathFilter, verilen fragment'lardan bir filtre oluşturur. Boş
// fragment'lar atlanır; geriye hiçbir fragment kalmazsa filtre her path ile
// eşleşir.
func NewPathFilter(fragments []string) *PathFilter {
	seen := make(map[string]struct{}, len(fragments))
	normalized := make([]string, 0, len(fragments))

	for _, fragment := range fragments {
		fragment = strings.ToLower(strings.TrimSpace(fragment))
		if fragment == "" {
			continue
		}
		if _, ok := seen[fragment]; ok {
			continue
		}
		seen[fragment] = struct{}{}
		normalized = append(normalized, fragment)
	}

	return &PathFilter{fragments: normalized}
}

// Match, path'in loglanıp loglanmayacağını döndürür. nil filtre her şeyle
// eşleşir.
func (f *PathFilter) Match(path string) bool {
	if f == nil || len(f.fragments) == 0 {
		return true
	}

	path = strings.ToLower(path)
	for _, fragment := range f.fragments {
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}

// Fragments, normalize edilmiş fragment'ların bir kopyasını döndürür.
func (f *PathFilter) Fragments() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.fragments...)
}
