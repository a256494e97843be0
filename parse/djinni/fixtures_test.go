package djinni_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wenzapen/vacancies/document"
	"github.com/wenzapen/vacancies/vocabulary"
)

const (
	detailURL  = "https://djinni.co/jobs/512345-middle-python-developer/"
	listingURL = "https://djinni.co/jobs/?primary_keyword=Python"
)

// detailHTML mirrors the markup of a djinni.co vacancy page.
const detailHTML = `<!DOCTYPE html>
<html lang="uk">
<body>
<div class="container">
  <h1>
    Middle Python Developer
    <span class="badge">new</span>
  </h1>
  <span class="public-salary-item">$2500-3500</span>
  <a class="job-details--title" href="/jobs/?company=acme">
    Acme Corp
  </a>
  <div class="mb-4">
    We build data pipelines in Python and Django.
    Experience with Docker and AWS is a plus, Haskell is not needed.
  </div>
  <ul class="job-additional-info">
    <li><span class="bi bi-building"></span><div>Тільки віддалено</div></li>
    <li><span class="bi bi-exclude"></span><div>Продуктова</div></li>
    <li><span class="bi bi-geo-alt-fill"></span><div><span>Ukraine, Poland</span></div></li>
    <li><span class="bi bi-airplane"></span><div>Компенсація релокації</div></li>
    <li><span class="bi bi-pencil-square"></span><div>Тестове завдання</div></li>
    <li><div>Англійська: Upper-Intermediate</div></li>
    <li><div>3 роки досвіду</div></li>
    <li><div>Домен: Fintech</div></li>
  </ul>
  <p class="text-muted">
    Вакансія опублікована 5 травня 2023
  </p>
  <p class="text-muted">42 перегляди · 7 відгуків</p>
</div>
</body>
</html>`

var testMonths = []string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

func testVocabulary(t *testing.T, technologies ...string) *vocabulary.Vocabulary {
	t.Helper()

	if len(technologies) == 0 {
		technologies = []string{"Python", "Django", "Docker", "AWS", "Kubernetes"}
	}
	v, err := vocabulary.New(testMonths, technologies)
	require.NoError(t, err)
	return v
}

// detailPage returns detailHTML with pairs of old, new strings replaced.
func detailPage(t *testing.T, oldnew ...string) *document.Document {
	t.Helper()

	body := strings.NewReplacer(oldnew...).Replace(detailHTML)
	doc, err := document.New([]byte(body), detailURL)
	require.NoError(t, err)
	return doc
}

func newDoc(t *testing.T, body, pageURL string) *document.Document {
	t.Helper()

	doc, err := document.New([]byte(body), pageURL)
	require.NoError(t, err)
	return doc
}
