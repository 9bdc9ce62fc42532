package catalog

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ParseFilter converts raw query parameters into a FilterSpec.
//
// It never fails: a parameter that does not parse is treated as absent and its
// name is reported in the returned slice so the caller can log it. When a
// parameter is repeated the last occurrence wins.
func ParseFilter(q url.Values, opts Options) (FilterSpec, []string) {
	opts = opts.withDefaults()
	p := &paramParser{q: q}

	spec := FilterSpec{
		Category:    p.text("category"),
		Subcategory: p.text("subcategory"),
		Discount:    p.flag("discount"),
		Brands:      p.set("brand"),
		Materials:   p.set("material"),
		Colors:      p.set("color"),
		Countries:   p.set("country"),
		Size:        p.text("size"),
		PriceRanges: p.priceRanges("price"),
		Search:      p.text("search"),
		MinReviews:  p.nonNegative("min_reviews"),
		Sort:        p.sortMode(),
		Page:        1,
		PageSize:    opts.DefaultPageSize,
	}

	if limit := p.positive("limit"); limit != nil {
		capped := min(*limit, opts.MaxFeedLimit)
		spec.Limit = &capped
		// page and pageSize mean nothing in feed mode
		return spec, p.ignored
	}

	if page := p.positive("page"); page != nil {
		spec.Page = *page
	}
	if size := p.positive("pageSize"); size != nil {
		spec.PageSize = min(*size, opts.MaxPageSize)
	}
	if spec.Page-1 > math.MaxInt/spec.PageSize {
		// the offset would overflow
		p.ignore("page")
		spec.Page = 1
	}
	if spec.Sort == SortRandom {
		// random order cannot be paginated
		spec.Sort = SortNewest
	}

	return spec, p.ignored
}

type paramParser struct {
	q       url.Values
	ignored []string
}

func (p *paramParser) last(name string) string {
	vs := p.q[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

func (p *paramParser) ignore(name string) {
	p.ignored = append(p.ignored, name)
}

func (p *paramParser) text(name string) *string {
	v := decodeSegment(p.last(name))
	if v == "" {
		return nil
	}
	return &v
}

func (p *paramParser) flag(name string) bool {
	switch raw := p.last(name); raw {
	case "true":
		return true
	case "", "false":
		return false
	default:
		p.ignore(name)
		return false
	}
}

func (p *paramParser) set(name string) []string {
	raw := p.last(name)
	if raw == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, segment := range strings.Split(raw, ",") {
		v := decodeSegment(segment)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	if len(out) == 0 {
		p.ignore(name)
		return nil
	}
	sort.Strings(out)
	return out
}

func (p *paramParser) positive(name string) *int {
	raw := strings.TrimSpace(p.last(name))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		p.ignore(name)
		return nil
	}
	return &n
}

func (p *paramParser) nonNegative(name string) *int {
	raw := strings.TrimSpace(p.last(name))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		p.ignore(name)
		return nil
	}
	return &n
}

func (p *paramParser) sortMode() SortMode {
	name := "sortBy"
	raw := p.last(name)
	if raw == "" {
		name = "sort"
		raw = p.last(name)
	}
	if raw == "" {
		return SortNewest
	}
	mode, ok := sortKeys[strings.TrimSpace(raw)]
	if !ok {
		p.ignore(name)
		return SortNewest
	}
	return mode
}

func (p *paramParser) priceRanges(name string) []PriceRange {
	raw := p.last(name)
	if raw == "" {
		return nil
	}

	var out []PriceRange
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		r, ok := parsePriceRange(token)
		if !ok {
			p.ignore(name)
			continue
		}
		out = append(out, r)
	}
	return normalizePriceRanges(out)
}

// parsePriceRange reads "min-max", "min-" or "-max". Each side is parsed on
// its own, so "500-abc" still yields a lower bound of 500.
func parsePriceRange(token string) (PriceRange, bool) {
	left, right, found := strings.Cut(token, "-")
	if !found || strings.Contains(right, "-") {
		return PriceRange{}, false
	}

	r := PriceRange{Min: parseBound(left), Max: parseBound(right)}
	if r.Min == nil && r.Max == nil {
		return PriceRange{}, false
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r, true
}

func parseBound(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func normalizePriceRanges(rs []PriceRange) []PriceRange {
	if len(rs) == 0 {
		return nil
	}

	sort.Slice(rs, func(i, j int) bool {
		return comparePriceRanges(rs[i], rs[j]) < 0
	})

	out := rs[:1]
	for _, r := range rs[1:] {
		if comparePriceRanges(r, out[len(out)-1]) != 0 {
			out = append(out, r)
		}
	}
	return out
}

// comparePriceRanges orders by lower bound then upper bound, open bounds first
func comparePriceRanges(a, b PriceRange) int {
	if c := compareBound(a.Min, b.Min); c != 0 {
		return c
	}
	return compareBound(a.Max, b.Max)
}

func compareBound(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

// decodeSegment undoes the per-value encoding the storefront applies before
// joining values with commas. Values that are not valid escapes pass through.
func decodeSegment(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	return strings.TrimSpace(s)
}
