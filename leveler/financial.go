package leveler

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/verum/evidence"
)

// Financial correlation tolerances.
const (
	PaymentTolerance  = 0.05
	MismatchTolerance = 0.10
	DuplicateWindow   = 30 * 24 * time.Hour
)

// CorrelateFinancials extracts currency-prefixed amounts from statements,
// classifies them by keyword, and cross-checks invoices against payments
// and receipts in the same currency (B6).
func CorrelateFinancials(statements []evidence.Statement, rules *Rules) Financial {
	f := Financial{
		Transactions:  ExtractTransactions(statements, rules),
		Discrepancies: []FinancialDiscrepancy{},
	}

	var invoices, settlements []Transaction
	for _, t := range f.Transactions {
		switch t.Type {
		case TransactionInvoice:
			invoices = append(invoices, t)
		case TransactionPayment, TransactionReceipt:
			settlements = append(settlements, t)
		}
	}

	for _, inv := range invoices {
		if inv.Amount <= 0 {
			continue
		}
		f.Discrepancies = append(f.Discrepancies, checkInvoice(inv, settlements)...)
	}
	f.Discrepancies = append(f.Discrepancies, duplicateInvoices(invoices)...)
	return f
}

// ExtractTransactions returns every classified monetary amount in statement order.
// Amounts in statements matching no transaction class are ignored.
func ExtractTransactions(statements []evidence.Statement, rules *Rules) []Transaction {
	transactions := []Transaction{}
	for _, s := range statements {
		text := fold(s.Content)
		class, ok := classify(text, rules)
		if !ok {
			continue
		}

		for _, m := range rules.amountPattern.FindAllStringSubmatch(s.Content, -1) {
			amount, err := parseAmount(m[2])
			if err != nil {
				continue
			}
			transactions = append(transactions, Transaction{
				StatementID: s.ID,
				Speaker:     s.Speaker,
				Type:        class,
				Amount:      amount,
				Currency:    currencyOf(m[1], text, rules),
				Timestamp:   s.Timestamp,
			})
		}
	}
	return transactions
}

func classify(text string, rules *Rules) (TransactionType, bool) {
	for _, c := range rules.Financial.Classes {
		if containsAny(text, c.Keywords) {
			return TransactionType(c.Type), true
		}
	}
	return "", false
}

// currencyOf resolves the currency of an amount from its symbol. Generic
// symbols fall back to currency keywords in the statement, then the default.
func currencyOf(symbol, text string, rules *Rules) string {
	for _, c := range rules.Financial.Currencies {
		for _, s := range c.Symbols {
			if strings.EqualFold(s, symbol) {
				return c.Code
			}
		}
	}
	for _, c := range rules.Financial.Currencies {
		if containsAny(text, c.Keywords) {
			return c.Code
		}
	}
	return rules.Financial.DefaultCurrency
}

func checkInvoice(inv Transaction, settlements []Transaction) []FinancialDiscrepancy {
	var (
		found    []FinancialDiscrepancy
		paid     bool
		matching []Transaction
		total    float64
		settled  bool
	)

	for _, p := range settlements {
		if p.Currency != inv.Currency {
			continue
		}
		settled = true
		total += p.Amount
		if math.Abs(p.Amount-inv.Amount) > PaymentTolerance*inv.Amount {
			continue
		}
		matching = append(matching, p)
		if !p.Timestamp.Before(inv.Timestamp) {
			paid = true
		}
	}

	if settled && len(matching) == 0 && math.Abs(total-inv.Amount)/inv.Amount > MismatchTolerance {
		found = append(found, FinancialDiscrepancy{
			Type:        DiscrepancyAmountMismatch,
			Description: fmt.Sprintf("invoice of %.2f %s settled by payments totalling %.2f", inv.Amount, inv.Currency, total),
			Expected:    inv.Amount,
			Actual:      round2(total),
			Currency:    inv.Currency,
			Severity:    SeverityHigh,
			RelatedIDs:  relatedIDs(inv, settlementsIn(settlements, inv.Currency)...),
		})
	}

	if !paid {
		found = append(found, FinancialDiscrepancy{
			Type:        DiscrepancyMissingPayment,
			Description: fmt.Sprintf("no payment within %.0f%% of invoice %.2f %s on or after its date", PaymentTolerance*100, inv.Amount, inv.Currency),
			Expected:    inv.Amount,
			Actual:      0,
			Currency:    inv.Currency,
			Severity:    SeverityCritical,
			RelatedIDs:  []string{inv.StatementID},
		})
	}

	for _, p := range matching {
		if !p.Timestamp.Before(inv.Timestamp) {
			continue
		}
		found = append(found, FinancialDiscrepancy{
			Type:        DiscrepancyDateDiscrepancy,
			Description: fmt.Sprintf("payment of %.2f %s predates the matching invoice", p.Amount, p.Currency),
			Expected:    inv.Amount,
			Actual:      p.Amount,
			Currency:    inv.Currency,
			Severity:    SeverityHigh,
			RelatedIDs:  relatedIDs(inv, p),
		})
	}
	return found
}

func duplicateInvoices(invoices []Transaction) []FinancialDiscrepancy {
	found := []FinancialDiscrepancy{}
	for i := range invoices {
		for j := i + 1; j < len(invoices); j++ {
			a, b := invoices[i], invoices[j]
			if a.Currency != b.Currency || math.Abs(a.Amount-b.Amount) >= 0.005 {
				continue
			}
			if a.Timestamp.Sub(b.Timestamp).Abs() > DuplicateWindow {
				continue
			}
			found = append(found, FinancialDiscrepancy{
				Type:        DiscrepancyDuplicateInvoice,
				Description: fmt.Sprintf("two invoices of %.2f %s within %d days", a.Amount, a.Currency, int(DuplicateWindow.Hours()/24)),
				Expected:    a.Amount,
				Actual:      b.Amount,
				Currency:    a.Currency,
				Severity:    SeverityMedium,
				RelatedIDs:  relatedIDs(a, b),
			})
		}
	}
	return found
}

func settlementsIn(settlements []Transaction, currency string) []Transaction {
	var out []Transaction
	for _, s := range settlements {
		if s.Currency == currency {
			out = append(out, s)
		}
	}
	return out
}

// relatedIDs lists distinct statement ids in first-seen order.
func relatedIDs(first Transaction, rest ...Transaction) []string {
	ids := []string{first.StatementID}
	for _, t := range rest {
		if !slices.Contains(ids, t.StatementID) {
			ids = append(ids, t.StatementID)
		}
	}
	return ids
}

// parseAmount reads "12,345.67" and the decimal-comma form "12.345,67".
func parseAmount(v string) (float64, error) {
	if i, j := strings.LastIndex(v, ","), strings.LastIndex(v, "."); i > j && j >= 0 {
		v = strings.ReplaceAll(v, ".", "")
		return strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	}
	return strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
}
