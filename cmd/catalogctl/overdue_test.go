package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

func TestPrintOverdue(t *testing.T) {
	today := model.NewDate(2024, time.May, 15)
	due := model.NewDate(2024, time.May, 10)
	book := 7
	borrower := "paul"
	id := uuid.MustParse("f7cdc58f-2caf-4b15-9727-f89dcc629b27")
	items := []model.BookInstance{
		{ID: id, BookID: &book, DueBack: &due, Borrower: &borrower},
		{ID: uuid.Nil, DueBack: &due},
		{ID: id, BookID: &book, DueBack: &due},
	}
	require.Equal(t, []int{7}, bookIDs(items))

	var out bytes.Buffer
	require.NoError(t, printOverdue(&out, today, items, map[int]string{7: "Dune"}))
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 5)
	require.Contains(t, string(lines[1]), "Dune")
	require.Contains(t, string(lines[1]), "paul")
	require.Contains(t, string(lines[1]), "2024-05-10")
	require.Regexp(t, `\s5$`, string(lines[1]))
	require.Equal(t, "3 overdue", string(lines[4]))
}

func TestMigrateCmd_RejectsUnknownCommand(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "sideways"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.Error(t, root.Execute())
}
