package djinni

import (
	"github.com/wenzapen/vacancies/document"
	"github.com/wenzapen/vacancies/vocabulary"
)

// Vacancy is the record extracted from one detail page. Pointer and slice
// fields are nil when the page does not show them.
type Vacancy struct {
	Title                        string   `json:"title"`
	Salary                       []int    `json:"salary"`
	Company                      string   `json:"company"`
	EnglishLevel                 *string  `json:"english_level"`
	ExperienceYears              int      `json:"experience_years"`
	Domain                       *string  `json:"domain"`
	JobType                      *string  `json:"job_type"`
	CompanyType                  *string  `json:"company_type"`
	Country                      []string `json:"country"`
	RelocationCompensationExists bool     `json:"relocation_compensation_exists"`
	TestTaskExists               bool     `json:"test_task_exists"`
	PublicationDate              Date     `json:"publication_date"`
	ViewsCount                   int      `json:"views_count"`
	ApplicantCount               int      `json:"applicant_count"`
	Technologies                 []string `json:"technologies"`
}

// Fields lists the JSON names of Vacancy in declaration order.
var Fields = []string{
	"title",
	"salary",
	"company",
	"english_level",
	"experience_years",
	"domain",
	"job_type",
	"company_type",
	"country",
	"relocation_compensation_exists",
	"test_task_exists",
	"publication_date",
	"views_count",
	"applicant_count",
	"technologies",
}

// Assemble runs every extractor over doc in field order. The first required
// field that cannot be extracted aborts the record with a
// *FieldExtractionError; optional fields are left nil instead.
func Assemble(doc *document.Document, vocab *vocabulary.Vocabulary) (*Vacancy, error) {
	var (
		v   Vacancy
		err error
	)
	if v.Title, err = Title(doc); err != nil {
		return nil, fieldError("title", err)
	}
	v.Salary = Salary(doc)
	if v.Company, err = Company(doc); err != nil {
		return nil, fieldError("company", err)
	}
	v.EnglishLevel = EnglishLevel(doc)
	if v.ExperienceYears, err = ExperienceYears(doc); err != nil {
		return nil, fieldError("experience_years", err)
	}
	v.Domain = Domain(doc)
	v.JobType = JobType(doc)
	v.CompanyType = CompanyType(doc)
	v.Country = Country(doc)
	v.RelocationCompensationExists = HasRelocationCompensation(doc)
	v.TestTaskExists = HasTestTask(doc)
	if v.PublicationDate, err = PublicationDate(doc, vocab); err != nil {
		return nil, fieldError("publication_date", err)
	}
	if v.ViewsCount, err = ViewsCount(doc); err != nil {
		return nil, fieldError("views_count", err)
	}
	if v.ApplicantCount, err = ApplicantCount(doc); err != nil {
		return nil, fieldError("applicant_count", err)
	}
	if v.Technologies, err = Technologies(doc, vocab); err != nil {
		return nil, fieldError("technologies", err)
	}
	return &v, nil
}
