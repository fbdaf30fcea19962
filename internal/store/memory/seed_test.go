package memory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contas/internal/core"
)

func TestReadSeed(t *testing.T) {
	in := `# sample data
date,description,amount,type,paid
2024-03-01,Rent,"1200,00",EXPENSE,true
2024-03-05, Salary ,3500.5,income,false
`
	entries, err := ReadSeed(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Rent", entries[0].Description)
	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("1200")))
	assert.Equal(t, core.Expense, entries[0].Type)
	assert.True(t, entries[0].Paid)

	assert.Equal(t, "Salary", entries[1].Description)
	assert.Equal(t, core.Income, entries[1].Type)
	assert.True(t, entries[1].Date.Equal(core.NewDate(2024, 3, 5)))
	assert.False(t, entries[1].Paid)
}

func TestReadSeedErrors(t *testing.T) {
	cases := map[string]string{
		"bad date":   "03/01/2024,Rent,10,EXPENSE,true\n",
		"bad amount": "2024-03-01,Rent,ten,EXPENSE,true\n",
		"bad type":   "2024-03-01,Rent,10,OTHER,true\n",
		"bad paid":   "2024-03-01,Rent,10,EXPENSE,maybe\n",
		"blank desc": "2024-03-01, ,10,EXPENSE,true\n",
		"columns":    "2024-03-01,Rent,10\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadSeed(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFromFile(filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	path := filepath.Join(dir, "seed.csv")
	content := "2024-01-01,A,1,INCOME,true\n2024-01-02,B,2,EXPENSE,false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err = NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(s.FindAll()))

	require.NoError(t, os.WriteFile(path, []byte("2024-01-01,A,x,INCOME,true\n"), 0o644))
	_, err = NewFromFile(path)
	assert.ErrorContains(t, err, "line 1")
}
