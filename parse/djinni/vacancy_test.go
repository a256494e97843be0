package djinni_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wenzapen/vacancies/parse/djinni"
)

func strPtr(s string) *string { return &s }

func TestAssemble(t *testing.T) {
	v, err := djinni.Assemble(detailPage(t), testVocabulary(t))
	require.NoError(t, err)

	want := &djinni.Vacancy{
		Title:                        "Middle Python Developer",
		Salary:                       []int{2500, 3500},
		Company:                      "Acme Corp",
		EnglishLevel:                 strPtr("Upper-Intermediate"),
		ExperienceYears:              3,
		Domain:                       strPtr("Fintech"),
		JobType:                      strPtr("Тільки віддалено"),
		CompanyType:                  strPtr("Продуктова"),
		Country:                      []string{"Poland", "Ukraine"},
		RelocationCompensationExists: true,
		TestTaskExists:               true,
		PublicationDate:              djinni.Date{Year: 2023, Month: time.May, Day: 5},
		ViewsCount:                   42,
		ApplicantCount:               7,
		Technologies:                 []string{"Python", "Django", "Docker", "AWS"},
	}
	assert.Equal(t, want, v)
}

func TestAssemble_OptionalFieldsDegrade(t *testing.T) {
	doc := detailPage(t,
		`<span class="public-salary-item">$2500-3500</span>`, "",
		"<li><div>Англійська: Upper-Intermediate</div></li>", "",
		"<li><div>Домен: Fintech</div></li>", "",
		`<span class="bi bi-building">`, `<span class="bi">`,
		`<span class="bi bi-exclude">`, `<span class="bi">`,
		`<span class="bi bi-geo-alt-fill">`, `<span class="bi">`,
		`<span class="bi bi-airplane">`, `<span class="bi">`,
		`<span class="bi bi-pencil-square">`, `<span class="bi">`,
		"Haskell", "Kubernetes",
	)

	v, err := djinni.Assemble(doc, testVocabulary(t))
	require.NoError(t, err)

	assert.Nil(t, v.Salary)
	assert.Nil(t, v.EnglishLevel)
	assert.Nil(t, v.Domain)
	assert.Nil(t, v.JobType)
	assert.Nil(t, v.CompanyType)
	assert.Nil(t, v.Country)
	assert.False(t, v.RelocationCompensationExists)
	assert.False(t, v.TestTaskExists)
	assert.Equal(t, []string{"Python", "Django", "Docker", "AWS", "Kubernetes"}, v.Technologies)
}

func TestAssemble_RequiredFieldFails(t *testing.T) {
	tests := []struct {
		field  string
		oldnew []string
	}{
		{"title", []string{"<h1>", "<h2>", "</h1>", "</h2>"}},
		{"company", []string{"job-details--title", "job-details"}},
		{"experience_years", []string{"3 роки досвіду", "три роки досвіду"}},
		{"publication_date", []string{"5 травня 2023", "нещодавно"}},
		{"views_count", []string{"42 перегляди", "42 рази"}},
		{"applicant_count", []string{"7 відгуків", "7 разів"}},
		{"technologies", []string{`class="mb-4"`, `class="mb-3"`}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			v, err := djinni.Assemble(detailPage(t, tt.oldnew...), testVocabulary(t))
			assert.Nil(t, v)

			var fe *djinni.FieldExtractionError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestAssemble_MissingTitle(t *testing.T) {
	doc := newDoc(t, `<html><body><p class="text-muted">5 травня 2023</p></body></html>`, detailURL)

	v, err := djinni.Assemble(doc, testVocabulary(t))
	assert.Nil(t, v)

	var fe *djinni.FieldExtractionError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "title", fe.Field)
	assert.ErrorIs(t, err, djinni.ErrNotFound)
	assert.Contains(t, err.Error(), "extract title")
}

func TestAssemble_FailsFastInFieldOrder(t *testing.T) {
	doc := detailPage(t,
		"job-details--title", "job-details",
		"5 травня 2023", "нещодавно",
	)

	_, err := djinni.Assemble(doc, testVocabulary(t))
	var fe *djinni.FieldExtractionError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "company", fe.Field)
}

func TestAssemble_Idempotent(t *testing.T) {
	doc := detailPage(t)
	vocab := testVocabulary(t)

	first, err := djinni.Assemble(doc, vocab)
	require.NoError(t, err)
	second, err := djinni.Assemble(doc, vocab)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second))

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVacancy_JSON(t *testing.T) {
	v, err := djinni.Assemble(detailPage(t, `<span class="public-salary-item">$2500-3500</span>`, ""), testVocabulary(t))
	require.NoError(t, err)

	b, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Len(t, m, len(djinni.Fields))
	for _, f := range djinni.Fields {
		assert.Contains(t, m, f)
	}
	assert.Nil(t, m["salary"])
	assert.Equal(t, "2023-05-05", m["publication_date"])
}

func TestHandleDetail(t *testing.T) {
	v, err := djinni.HandleDetail(detailPage(t), testVocabulary(t))
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", v.Company)
}
