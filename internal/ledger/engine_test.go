// internal/ledger/engine_test.go
package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netsplit-ledger/internal/currency"
	"netsplit-ledger/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(currency.NewConverter(currency.NewStaticRateService(nil), nil))
}

// addExpense appends an expense with canonical splits, bypassing the splitter.
func addExpense(group *domain.Group, payerEmail string, at time.Time, title string, splits map[string]decimal.Decimal) {
	payer := group.FindMember(payerEmail)
	splitWith := make([]domain.SplitDetail, 0, len(splits))
	total := decimal.Zero
	for _, m := range group.Members {
		amount, ok := splits[m.Email]
		if !ok {
			continue
		}
		total = total.Add(amount)
		splitWith = append(splitWith, domain.SplitDetail{
			Email:    m.Email,
			Name:     m.Name,
			Amount:   amount,
			Currency: currency.Canonical,
		})
	}
	expense := domain.NewExpense(title, total, currency.CUSD, *payer, splitWith)
	expense.Timestamp = at
	group.Expenses = append(group.Expenses, expense)
}

func addPayment(group *domain.Group, fromEmail, toEmail string, amount decimal.Decimal, cur currency.Currency) {
	from := group.FindMember(fromEmail)
	to := group.FindMember(toEmail)
	group.Payments = append(group.Payments, domain.NewPayment(*from, *to, amount, cur))
}

func balanceFor(t *testing.T, balances []domain.Balance, email string) domain.Balance {
	t.Helper()
	for _, b := range balances {
		if b.Email == email {
			return b
		}
	}
	t.Fatalf("no balance for %s", email)
	return domain.Balance{}
}

func TestBalances_EqualSplitExample(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	// $90 paid by Alice, split equally: Bob and Carol each owe $30.
	addExpense(group, "alice@example.com", now, "Dinner", map[string]decimal.Decimal{
		"bob@example.com":   decimal.NewFromInt(30),
		"carol@example.com": decimal.NewFromInt(30),
	})

	balances := engine.Balances(group)
	require.Len(t, balances, 3)

	alice := balanceFor(t, balances, "alice@example.com")
	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(60)), "got %s", alice.Balance)
	assert.Empty(t, alice.Owes)
	require.Len(t, alice.IsOwed, 2)

	bob := balanceFor(t, balances, "bob@example.com")
	assert.True(t, bob.Balance.Equal(decimal.NewFromInt(-30)), "got %s", bob.Balance)
	require.Len(t, bob.Owes, 1)
	assert.Equal(t, "alice@example.com", bob.Owes[0].Email)
	assert.True(t, bob.Owes[0].Amount.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "0xA", bob.Owes[0].WalletAddress)
}

func TestBalances_MutualDebtsAreNetted(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	// Alice owes Bob $50, Bob owes Alice $30: only the net $20 survives.
	addExpense(group, "bob@example.com", now, "Tickets", map[string]decimal.Decimal{
		"alice@example.com": decimal.NewFromInt(50),
	})
	addExpense(group, "alice@example.com", now.Add(time.Hour), "Lunch", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(30),
	})

	matrix := engine.BuildDebtMatrix(group)
	matrix.Net(group.Members)
	assert.True(t, matrix["alice@example.com"]["bob@example.com"].Equal(decimal.NewFromInt(20)))
	assert.True(t, matrix["bob@example.com"]["alice@example.com"].IsZero())

	balances := engine.Balances(group)
	alice := balanceFor(t, balances, "alice@example.com")
	require.Len(t, alice.Owes, 1)
	assert.True(t, alice.Owes[0].Amount.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, alice.IsOwed, "netted pairs must not show both directions")
}

func TestBalances_FullNetting(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	addExpense(group, "bob@example.com", now, "Flights", map[string]decimal.Decimal{
		"alice@example.com": decimal.NewFromInt(100),
	})
	addExpense(group, "alice@example.com", now.Add(time.Minute), "Hotel", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(100),
	})

	matrix := engine.BuildDebtMatrix(group)
	matrix.Net(group.Members)
	assert.True(t, matrix["alice@example.com"]["bob@example.com"].IsZero())
	assert.True(t, matrix["bob@example.com"]["alice@example.com"].IsZero())

	balances := engine.Balances(group)
	for _, b := range balances {
		assert.True(t, b.Balance.IsZero(), "%s should have zero balance, got %s", b.Email, b.Balance)
	}
}

func TestNet_Idempotence(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	addExpense(group, "alice@example.com", now, "A", map[string]decimal.Decimal{
		"bob@example.com":   decimal.NewFromFloat(12.34),
		"carol@example.com": decimal.NewFromFloat(56.78),
	})
	addExpense(group, "bob@example.com", now, "B", map[string]decimal.Decimal{
		"alice@example.com": decimal.NewFromFloat(40),
		"carol@example.com": decimal.NewFromFloat(7.5),
	})
	addExpense(group, "carol@example.com", now, "C", map[string]decimal.Decimal{
		"alice@example.com": decimal.NewFromFloat(3.33),
		"bob@example.com":   decimal.NewFromFloat(90),
	})

	matrix := engine.BuildDebtMatrix(group)
	matrix.Net(group.Members)

	// After netting, at most one direction per pair is non-zero.
	for i := 0; i < len(group.Members); i++ {
		for j := i + 1; j < len(group.Members); j++ {
			a := group.Members[i].Email
			b := group.Members[j].Email
			assert.True(t, decimal.Min(matrix[a][b], matrix[b][a]).IsZero(),
				"pair {%s,%s} not fully netted: %s / %s", a, b, matrix[a][b], matrix[b][a])
		}
	}
}

func TestBalances_Conservation(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	addExpense(group, "alice@example.com", now, "A", map[string]decimal.Decimal{
		"bob@example.com":   decimal.NewFromFloat(19.99),
		"carol@example.com": decimal.NewFromFloat(33.10),
	})
	addExpense(group, "carol@example.com", now, "B", map[string]decimal.Decimal{
		"alice@example.com": decimal.NewFromFloat(5.55),
		"bob@example.com":   decimal.NewFromFloat(41),
	})
	addPayment(group, "bob@example.com", "alice@example.com", decimal.NewFromFloat(10), currency.CUSD)

	sum := decimal.Zero
	for _, b := range engine.Balances(group) {
		sum = sum.Add(b.Balance)
	}
	assert.True(t, sum.IsZero(), "balances must sum to zero, got %s", sum)
}

func TestBalances_PaidSplitsAreExcluded(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	addExpense(group, "alice@example.com", now, "Dinner", map[string]decimal.Decimal{
		"bob@example.com":   decimal.NewFromInt(30),
		"carol@example.com": decimal.NewFromInt(30),
	})
	group.Expenses[0].SplitWith[0].IsPaid = true

	matrix := engine.BuildDebtMatrix(group)
	assert.True(t, matrix["bob@example.com"]["alice@example.com"].IsZero())
	assert.True(t, matrix["carol@example.com"]["alice@example.com"].Equal(decimal.NewFromInt(30)))
}

func TestBalances_PaymentReducesDebt(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	addExpense(group, "alice@example.com", now, "Dinner", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(30),
	})
	addPayment(group, "bob@example.com", "alice@example.com", decimal.NewFromInt(10), currency.CUSD)

	balances := engine.Balances(group)
	bob := balanceFor(t, balances, "bob@example.com")
	assert.True(t, bob.Balance.Equal(decimal.NewFromInt(-20)), "got %s", bob.Balance)
}

func TestBalances_PaymentInForeignCurrency(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	// Bob owes Alice 108 cUSD; a 100 cEUR payment is normalized to
	// 108 cUSD before the matrix subtraction.
	addExpense(group, "alice@example.com", now, "Hotel", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(108),
	})
	addPayment(group, "bob@example.com", "alice@example.com", decimal.NewFromInt(100), currency.CEUR)

	balances := engine.Balances(group)
	bob := balanceFor(t, balances, "bob@example.com")
	assert.True(t, bob.Balance.IsZero(), "got %s", bob.Balance)
	assert.Empty(t, bob.Owes)
}

func TestBalances_RoundsOnlyAtEmission(t *testing.T) {
	engine := newTestEngine()
	group := newTestGroup()
	now := time.Now().UTC()

	// 10 / 3 shares carry full precision through the matrix; the report
	// rounds them to 2 places.
	third := decimal.NewFromInt(10).Div(decimal.NewFromInt(3))
	addExpense(group, "alice@example.com", now, "Coffee", map[string]decimal.Decimal{
		"bob@example.com": third,
	})

	balances := engine.Balances(group)
	bob := balanceFor(t, balances, "bob@example.com")
	require.Len(t, bob.Owes, 1)
	assert.True(t, bob.Owes[0].Amount.Equal(decimal.NewFromFloat(3.33)), "got %s", bob.Owes[0].Amount)
}
