package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"golang.org/x/text/language"
)

// NormalizeLanguages canonicalises language codes to BCP-47 and drops
// duplicates while keeping the first-seen order. The result is never nil.
func NormalizeLanguages(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))

	for _, code := range codes {
		tag, err := language.Parse(strings.TrimSpace(code))
		if err != nil {
			return nil, fmt.Errorf("%w: language %q: %v", common.ErrInvalidArgument, code, err)
		}
		s := tag.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
