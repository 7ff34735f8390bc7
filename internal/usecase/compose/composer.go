// Package compose turns filtered records into a natural-language answer.
// The generation backend writes the prose; when it is unavailable the
// composer degrades to a plain record listing so the request still succeeds.
package compose

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
)

const systemPrompt = "Ты помощник по корпоративным данным. Ответь на вопрос пользователя, " +
	"опираясь только на приведённые записи. Не выдумывай фактов, которых нет в записях. " +
	"Ответ оформи в markdown."

// Composer builds answer text from records.
type Composer struct {
	gen         TextGenerator
	temperature float32
	logger      *zap.Logger
}

// New creates a composer.
func New(gen TextGenerator, temperature float32, logger *zap.Logger) *Composer {
	return &Composer{gen: gen, temperature: temperature, logger: logger}
}

// Compose asks the backend to answer the question from the records. A
// backend failure falls back to a local listing; Compose never fails.
func (c *Composer) Compose(ctx context.Context, question string, records []domain.Record) string {
	if len(records) == 0 {
		return "По вашему запросу ничего не найдено."
	}

	user := fmt.Sprintf("Вопрос: %s\n\nЗаписи:\n\n%s", question, FormatRecords(records))

	text, err := c.gen.GenerateText(ctx, systemPrompt, user, c.temperature)
	if err != nil || strings.TrimSpace(text) == "" {
		c.logger.Warn("Answer generation failed, using local fallback", zap.Error(err))
		return c.fallback(records)
	}
	return text
}

func (c *Composer) fallback(records []domain.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "По вашему запросу найдено записей: %d.\n\n", len(records))
	b.WriteString(FormatRecords(records))
	return b.String()
}

// FormatRecords renders records as markdown sections, one per record.
func FormatRecords(records []domain.Record) string {
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		formatRecord(&b, i+1, r)
	}
	return b.String()
}

func formatRecord(b *strings.Builder, n int, rec domain.Record) {
	switch r := rec.(type) {
	case *domain.Contractor:
		fmt.Fprintf(b, "### Контрагент %d: %s\n", n, r.Name)
		writeField(b, "Виды работ", r.WorkTypes)
		writeField(b, "Контактное лицо", r.ContactPerson)
		writeField(b, "Контакты", r.Contacts)
		writeField(b, "Сайт", r.Website)
		writeField(b, "Проекты", r.Projects)
		writeField(b, "Комментарий", r.Comments)
	case *domain.Risk:
		fmt.Fprintf(b, "### Риск %d\n", n)
		writeField(b, "Проект", r.ProjectName)
		writeField(b, "Тип проекта", r.ProjectType)
		writeField(b, "Риск", r.RiskText)
		writeField(b, "Приоритетность", r.RiskPriority)
		writeField(b, "Статус", r.Status)
	case *domain.ProjectError:
		fmt.Fprintf(b, "### Ошибка %d\n", n)
		writeField(b, "Проект", r.Project)
		writeField(b, "Предмет", r.Subject)
		writeField(b, "Описание", r.Description)
		writeField(b, "Причина", r.Reason)
		writeField(b, "Предпринятые меры", r.Measures)
		writeField(b, "Стадия", r.Stage)
	case *domain.Process:
		fmt.Fprintf(b, "### Бизнес-процесс %d: %s\n", n, r.Name)
		writeField(b, "Описание", r.Description)
		writeField(b, "Текстовое описание", r.TextDescription)
	default:
		fmt.Fprintf(b, "### Запись %d\n", n)
	}
	if score := rec.Relevance(); score != nil {
		writeField(b, "Релевантность", fmt.Sprintf("%.2f", *score))
	}
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}
