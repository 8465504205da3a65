package service

import (
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var sortByValues = []string{"relevancy", "popularity", "publishedAt"}

// paramRule — правило для одного параметра запроса.
type paramRule struct {
	name  string
	check func(name, v string) (string, error) // nil — любая непустая строка
	def   string                               // значение по умолчанию; "" — нет
}

var (
	pagingRules = []paramRule{
		{name: "pageSize", check: intRange(1, 100), def: "20"},
		{name: "page", check: intRange(1, 0), def: "1"},
	}

	everythingRules = append([]paramRule{
		{name: "q"},
		{name: "sources"},
		{name: "domains"},
		{name: "from", check: pattern(datePattern)},
		{name: "to", check: pattern(datePattern)},
		{name: "language", check: exactLen(2)},
		{name: "sortBy", check: oneOf(sortByValues...)},
	}, pagingRules...)

	headlinesRules = append([]paramRule{
		{name: "country", check: exactLen(2)},
		{name: "category"},
		{name: "sources"},
		{name: "q"},
	}, pagingRules...)

	// Справочник источников принимает только фильтры провайдера; прочие параметры отбрасываются.
	sourcesParams = []string{"language", "country", "category"}
)

// validateEverything проверяет параметры поиска по всем статьям и подставляет значения по умолчанию.
func validateEverything(q url.Values) (url.Values, error) {
	return validateQuery(q, everythingRules)
}

// validateHeadlines проверяет параметры главных заголовков и подставляет значения по умолчанию.
func validateHeadlines(q url.Values) (url.Values, error) {
	return validateQuery(q, headlinesRules)
}

// filterSources оставляет только поддерживаемые фильтры справочника источников.
func filterSources(q url.Values) url.Values {
	out := url.Values{}
	for _, name := range sourcesParams {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			out.Set(name, v)
		}
	}

	return out
}

// validateQuery применяет правила в порядке их объявления; первый нарушенный
// параметр определяет текст ошибки. Неизвестные параметры запрещены.
func validateQuery(q url.Values, rules []paramRule) (url.Values, error) {
	out := url.Values{}

	for _, r := range rules {
		vs, ok := q[r.name]
		if !ok {
			if r.def != "" {
				out.Set(r.name, r.def)
			}
			continue
		}

		if len(vs) != 1 {
			return nil, invalid(`"%s" must be a string`, r.name)
		}

		v := vs[0]
		if v == "" {
			return nil, invalid(`"%s" is not allowed to be empty`, r.name)
		}

		if r.check != nil {
			norm, err := r.check(r.name, v)
			if err != nil {
				return nil, err
			}
			v = norm
		}

		out.Set(r.name, v)
	}

	unknown := make([]string, 0)
	for k := range q {
		if !slices.ContainsFunc(rules, func(r paramRule) bool { return r.name == k }) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, invalid(`"%s" is not allowed`, unknown[0])
	}

	return out, nil
}

// intRange — целое в [lo, hi]; hi == 0 — без верхней границы.
func intRange(lo, hi int) func(name, v string) (string, error) {
	return func(name, v string) (string, error) {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return "", invalid(`"%s" must be a number`, name)
		}
		if n < lo {
			return "", invalid(`"%s" must be greater than or equal to %d`, name, lo)
		}
		if hi > 0 && n > hi {
			return "", invalid(`"%s" must be less than or equal to %d`, name, hi)
		}

		return strconv.Itoa(n), nil
	}
}

func exactLen(n int) func(name, v string) (string, error) {
	return func(name, v string) (string, error) {
		if utf8.RuneCountInString(v) != n {
			return "", invalid(`"%s" length must be %d characters long`, name, n)
		}

		return v, nil
	}
}

func pattern(re *regexp.Regexp) func(name, v string) (string, error) {
	return func(name, v string) (string, error) {
		if !re.MatchString(v) {
			return "", invalid(`"%s" with value "%s" fails to match the required pattern: /%s/`, name, v, re.String())
		}

		return v, nil
	}
}

func oneOf(allowed ...string) func(name, v string) (string, error) {
	return func(name, v string) (string, error) {
		if !slices.Contains(allowed, v) {
			return "", invalid(`"%s" must be one of [%s]`, name, strings.Join(allowed, ", "))
		}

		return v, nil
	}
}
