package djinni_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wenzapen/vacancies/parse/djinni"
)

func TestSalary(t *testing.T) {
	tests := []struct {
		name  string
		badge string
		want  []int
	}{
		{"range", `<span class="public-salary-item">$2500-3500</span>`, []int{2500, 3500}},
		{"single", `<span class="public-salary-item">до $4000</span>`, []int{4000}},
		{"no digits", `<span class="public-salary-item">за домовленістю</span>`, []int{}},
		{"overflow", `<span class="public-salary-item">$99999999999999999999999</span>`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := detailPage(t, `<span class="public-salary-item">$2500-3500</span>`, tt.badge)
			assert.Equal(t, tt.want, djinni.Salary(doc))
		})
	}
}

func TestSalary_AbsentIsNil(t *testing.T) {
	doc := detailPage(t, `<span class="public-salary-item">$2500-3500</span>`, "")
	assert.Nil(t, djinni.Salary(doc))
}

func TestEnglishLevelAndDomain(t *testing.T) {
	doc := detailPage(t)

	require.NotNil(t, djinni.EnglishLevel(doc))
	assert.Equal(t, "Upper-Intermediate", *djinni.EnglishLevel(doc))
	require.NotNil(t, djinni.Domain(doc))
	assert.Equal(t, "Fintech", *djinni.Domain(doc))

	bare := detailPage(t,
		"<li><div>Англійська: Upper-Intermediate</div></li>", "",
		"<li><div>Домен: Fintech</div></li>", "",
	)
	assert.Nil(t, djinni.EnglishLevel(bare))
	assert.Nil(t, djinni.Domain(bare))
}

func TestExperienceYears(t *testing.T) {
	years, err := djinni.ExperienceYears(detailPage(t))
	require.NoError(t, err)
	assert.Equal(t, 3, years)

	years, err = djinni.ExperienceYears(detailPage(t, "3 роки досвіду", "Без досвіду"))
	require.NoError(t, err)
	assert.Equal(t, 0, years)

	_, err = djinni.ExperienceYears(detailPage(t, "3 роки досвіду", "Багато досвіду"))
	assert.ErrorIs(t, err, djinni.ErrMalformed)

	_, err = djinni.ExperienceYears(detailPage(t, "<li><div>3 роки досвіду</div></li>", ""))
	assert.ErrorIs(t, err, djinni.ErrNotFound)
}

func TestJobTypeAndCompanyType(t *testing.T) {
	doc := detailPage(t)
	require.NotNil(t, djinni.JobType(doc))
	assert.Equal(t, "Тільки віддалено", *djinni.JobType(doc))
	require.NotNil(t, djinni.CompanyType(doc))
	assert.Equal(t, "Продуктова", *djinni.CompanyType(doc))

	bare := detailPage(t,
		`<li><span class="bi bi-building"></span><div>Тільки віддалено</div></li>`, "",
		`<div>Продуктова</div>`, `<div>  </div>`,
	)
	assert.Nil(t, djinni.JobType(bare))
	assert.Nil(t, djinni.CompanyType(bare))
}

func TestCountry(t *testing.T) {
	assert.Equal(t, []string{"Poland", "Ukraine"}, djinni.Country(detailPage(t)))

	doc := detailPage(t, "Ukraine, Poland", " Germany ,Austria, , Ukraine")
	assert.Equal(t, []string{"Austria", "Germany", "Ukraine"}, djinni.Country(doc))

	doc = detailPage(t, "Ukraine, Poland", "poland, Ukraine")
	assert.Equal(t, []string{"Ukraine", "poland"}, djinni.Country(doc), "ordering is case-sensitive")

	doc = detailPage(t, `<li><span class="bi bi-geo-alt-fill"></span><div><span>Ukraine, Poland</span></div></li>`, "")
	assert.Nil(t, djinni.Country(doc))
}

func TestFlags(t *testing.T) {
	doc := detailPage(t)
	assert.True(t, djinni.HasRelocationCompensation(doc))
	assert.True(t, djinni.HasTestTask(doc))

	bare := detailPage(t,
		`<li><span class="bi bi-airplane"></span><div>Компенсація релокації</div></li>`, "",
		`<div>Тестове завдання</div>`, `<div></div>`,
	)
	assert.False(t, djinni.HasRelocationCompensation(bare))
	assert.False(t, djinni.HasTestTask(bare))
}

func TestPublicationDate(t *testing.T) {
	vocab := testVocabulary(t)

	d, err := djinni.PublicationDate(detailPage(t), vocab)
	require.NoError(t, err)
	assert.Equal(t, djinni.Date{Year: 2023, Month: time.May, Day: 5}, d)
	assert.Equal(t, "2023-05-05", d.String())

	d, err = djinni.PublicationDate(detailPage(t, "5 травня 2023", "14 квітня 2024"), vocab)
	require.NoError(t, err)
	assert.Equal(t, djinni.Date{Year: 2024, Month: time.April, Day: 14}, d)
}

func TestPublicationDate_Errors(t *testing.T) {
	vocab := testVocabulary(t)

	_, err := djinni.PublicationDate(detailPage(t, "5 травня 2023", "вчора"), vocab)
	assert.ErrorIs(t, err, djinni.ErrNotFound)

	_, err = djinni.PublicationDate(detailPage(t, "5 травня 2023", "5 травеня 2023"), vocab)
	assert.ErrorIs(t, err, djinni.ErrMalformed)

	_, err = djinni.PublicationDate(detailPage(t, "5 травня 2023", "31 лютого 2023"), vocab)
	assert.ErrorIs(t, err, djinni.ErrMalformed)
}

func TestCounts(t *testing.T) {
	doc := detailPage(t)

	views, err := djinni.ViewsCount(doc)
	require.NoError(t, err)
	assert.Equal(t, 42, views)

	applicants, err := djinni.ApplicantCount(doc)
	require.NoError(t, err)
	assert.Equal(t, 7, applicants)

	bare := detailPage(t, "42 перегляди · 7 відгуків", "")
	_, err = djinni.ViewsCount(bare)
	assert.ErrorIs(t, err, djinni.ErrNotFound)
	_, err = djinni.ApplicantCount(bare)
	assert.ErrorIs(t, err, djinni.ErrNotFound)
}

func TestTechnologies(t *testing.T) {
	got, err := djinni.Technologies(detailPage(t), testVocabulary(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Django", "Docker", "AWS"}, got)
}

func TestTechnologies_VocabularyOrder(t *testing.T) {
	doc := newDoc(t, `<div class="mb-4">Our stack: Go services, some Python tooling, Elixir and Haskell.</div>`, detailURL)

	got, err := djinni.Technologies(doc, testVocabulary(t, "Python", "Go", "Rust"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go"}, got)
}

func TestTechnologies_Empty(t *testing.T) {
	doc := newDoc(t, `<div class="mb-4">Nothing we know about.</div>`, detailURL)

	got, err := djinni.Technologies(doc, testVocabulary(t))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = djinni.Technologies(newDoc(t, `<p>no description</p>`, detailURL), testVocabulary(t))
	assert.ErrorIs(t, err, djinni.ErrNotFound)
}

func TestTitleAndCompany(t *testing.T) {
	doc := detailPage(t)

	title, err := djinni.Title(doc)
	require.NoError(t, err)
	assert.Equal(t, "Middle Python Developer", title)

	company, err := djinni.Company(doc)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", company)

	_, err = djinni.Title(newDoc(t, `<h1>   </h1>`, detailURL))
	assert.ErrorIs(t, err, djinni.ErrMalformed)
}

func TestDate_Text(t *testing.T) {
	d := djinni.Date{Year: 2023, Month: time.May, Day: 5}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2023-05-05"`, string(b))

	var back djinni.Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
	assert.Equal(t, time.Date(2023, time.May, 5, 0, 0, 0, 0, time.UTC), d.Time())
}
