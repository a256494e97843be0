package djinni

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wenzapen/vacancies/document"
	"github.com/wenzapen/vacancies/vocabulary"
)

// Page layout of a djinni.co vacancy. Labels are matched literally in
// Ukrainian; a redesign or a different site language breaks them.
const (
	titleSelector       = "h1"
	companySelector     = ".job-details--title"
	salarySelector      = ".public-salary-item"
	jobTypeSelector     = ".bi-building + div"
	companyTypeSelector = ".bi-exclude + div"
	countrySelector     = ".bi-geo-alt-fill + div > span"
	relocationSelector  = ".bi-airplane + div"
	testTaskSelector    = ".bi-pencil-square + div"
	mutedSelector       = ".text-muted"
	descriptionSelector = ".mb-4"

	labelTag         = "div"
	englishLabel     = "Англійська:"
	domainLabel      = "Домен:"
	experienceWord   = "досвіду"
	noExperienceWord = "Без"
)

var (
	digitsRe     = regexp.MustCompile(`\d+`)
	dateRe       = regexp.MustCompile(`\d{1,2} \p{Cyrillic}+ \d{4}`)
	viewsRe      = regexp.MustCompile(`(\d+) перегляд`)
	applicantsRe = regexp.MustCompile(`(\d+) відгук`)
)

// Title is the vacancy heading.
func Title(doc *document.Document) (string, error) {
	return requiredText(doc, titleSelector)
}

func Company(doc *document.Document) (string, error) {
	return requiredText(doc, companySelector)
}

func requiredText(doc *document.Document, selector string) (string, error) {
	text, ok := doc.OwnText(selector)
	if !ok {
		return "", fmt.Errorf("%s: %w", selector, ErrNotFound)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s is blank: %w", selector, ErrMalformed)
	}
	return text, nil
}

// Salary returns every run of digits in the salary badge, in order, so a
// range "$2500-3500" gives [2500 3500]. Nil when the badge is missing.
func Salary(doc *document.Document) []int {
	text, ok := doc.OwnText(salarySelector)
	if !ok {
		return nil
	}
	runs := digitsRe.FindAllString(text, -1)
	salary := make([]int, 0, len(runs))
	for _, r := range runs {
		n, err := strconv.Atoi(r)
		if err != nil {
			return nil
		}
		salary = append(salary, n)
	}
	return salary
}

func EnglishLevel(doc *document.Document) *string {
	return labelValue(doc, englishLabel)
}

func Domain(doc *document.Document) *string {
	return labelValue(doc, domainLabel)
}

// labelValue reads "Label: value" text nodes.
func labelValue(doc *document.Document, label string) *string {
	text, ok := doc.TextNodeContaining(labelTag, label)
	if !ok {
		return nil
	}
	parts := strings.Split(text, ":")
	if len(parts) < 2 {
		return nil
	}
	v := strings.TrimSpace(parts[1])
	return &v
}

// ExperienceYears reads "<n> роки досвіду" or "Без досвіду" (0).
func ExperienceYears(doc *document.Document) (int, error) {
	text, ok := doc.TextNodeContaining(labelTag, experienceWord)
	if !ok {
		return 0, fmt.Errorf("%q: %w", experienceWord, ErrNotFound)
	}
	token := strings.Fields(text)[0]
	if token == noExperienceWord {
		return 0, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q: %w", token, ErrMalformed)
	}
	return n, nil
}

func JobType(doc *document.Document) *string {
	return optionalText(doc, jobTypeSelector)
}

func CompanyType(doc *document.Document) *string {
	return optionalText(doc, companyTypeSelector)
}

func optionalText(doc *document.Document, selector string) *string {
	text, ok := doc.OwnText(selector)
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}

// Country splits the comma separated location next to the geo icon and
// sorts it.
func Country(doc *document.Document) []string {
	text, ok := doc.OwnText(countrySelector)
	if !ok {
		return nil
	}
	countries := []string{}
	for _, c := range strings.Split(text, ",") {
		if c = strings.TrimSpace(c); c != "" {
			countries = append(countries, c)
		}
	}
	sort.Strings(countries)
	return countries
}

func HasRelocationCompensation(doc *document.Document) bool {
	return hasText(doc, relocationSelector)
}

func HasTestTask(doc *document.Document) bool {
	return hasText(doc, testTaskSelector)
}

func hasText(doc *document.Document, selector string) bool {
	text, ok := doc.OwnText(selector)
	return ok && text != ""
}

// PublicationDate finds "<day> <month word> <year>" in the muted text and
// resolves the month through the vocabulary.
func PublicationDate(doc *document.Document, vocab *vocabulary.Vocabulary) (Date, error) {
	m, ok := doc.FindSubmatch(mutedSelector, dateRe)
	if !ok {
		return Date{}, fmt.Errorf("date in %s: %w", mutedSelector, ErrNotFound)
	}
	parts := strings.Fields(m[0])
	day, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[2])
	month, ok := vocab.Month(parts[1])
	if !ok {
		return Date{}, fmt.Errorf("month %q: %w", parts[1], ErrMalformed)
	}
	d := Date{Year: year, Month: month, Day: day}
	if !d.valid() {
		return Date{}, fmt.Errorf("date %q: %w", m[0], ErrMalformed)
	}
	return d, nil
}

func ViewsCount(doc *document.Document) (int, error) {
	return count(doc, viewsRe)
}

func ApplicantCount(doc *document.Document) (int, error) {
	return count(doc, applicantsRe)
}

func count(doc *document.Document, re *regexp.Regexp) (int, error) {
	m, ok := doc.FindSubmatch(mutedSelector, re)
	if !ok {
		return 0, fmt.Errorf("%s in %s: %w", re, mutedSelector, ErrNotFound)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%q: %w", m[1], ErrMalformed)
	}
	return n, nil
}

// Technologies lists the vocabulary technologies mentioned in the
// description block, in vocabulary order.
func Technologies(doc *document.Document, vocab *vocabulary.Vocabulary) ([]string, error) {
	text, ok := doc.Text(descriptionSelector)
	if !ok {
		return nil, fmt.Errorf("%s: %w", descriptionSelector, ErrNotFound)
	}
	return vocab.MatchTechnologies(text), nil
}

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) valid() bool {
	t := d.Time()
	return d.Year > 0 && t.Year() == d.Year && t.Month() == d.Month && t.Day() == d.Day
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return err
	}
	*d = Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	return nil
}
