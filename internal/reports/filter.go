package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/gestion-vente/internal/domain/invoices"
)

type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodToday, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (all, today, week, month)", s)
	}
}

// Filter отбирает счета: период считается от now, неделя начинается с понедельника.
// Client ищется как подстрока без учёта регистра, Amount сравнивается с итогом точно.
type Filter struct {
	Period Period
	Client string
	Amount *decimal.Decimal
}

func (f Filter) Apply(list []invoices.Invoice, now time.Time) []invoices.Invoice {
	from, to := f.bounds(now)
	client := strings.ToLower(strings.TrimSpace(f.Client))

	out := make([]invoices.Invoice, 0, len(list))
	for _, inv := range list {
		day := inv.Date.Format("2006-01-02")
		if from != "" && (day < from || day > to) {
			continue
		}
		if client != "" && !strings.Contains(strings.ToLower(inv.Client), client) {
			continue
		}
		if f.Amount != nil && !f.Amount.Equal(inv.Total) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func (f Filter) bounds(now time.Time) (string, string) {
	const layout = "2006-01-02"
	today := now.Format(layout)
	switch f.Period {
	case PeriodToday:
		return today, today
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		return now.AddDate(0, 0, -offset).Format(layout), today
	case PeriodMonth:
		return now.AddDate(0, 0, 1-now.Day()).Format(layout), today
	}
	return "", ""
}
