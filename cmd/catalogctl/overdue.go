package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/repository"
	"github.com/Astemirdum/library-catalog/catalog/internal/service"
	"github.com/Astemirdum/library-catalog/pkg/postgres"
)

func newOverdueCmd() *cobra.Command {
	var (
		borrower string
		bookID   int
	)
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List copies whose due date has passed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := postgres.Connect(cmd.Context(), cfg.Database.DSN(), cfg.Database.MaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			repo, err := repository.NewRepository(pool, log)
			if err != nil {
				return err
			}
			svc := service.NewService(repo, nil, log)

			var filter model.InstanceFilter
			if borrower != "" {
				filter.Borrower = &borrower
			}
			if bookID > 0 {
				filter.BookID = &bookID
			}
			list, err := svc.ListOverdueInstances(cmd.Context(), filter)
			if err != nil {
				return err
			}
			titles := make(map[int]string)
			if ids := bookIDs(list.Items); len(ids) > 0 {
				books, err := svc.ListBooks(cmd.Context(), model.BookFilter{IDs: ids})
				if err != nil {
					return err
				}
				for _, b := range books.Items {
					titles[b.ID] = b.Title
				}
			}
			return printOverdue(cmd.OutOrStdout(), svc.Today(), list.Items, titles)
		},
	}
	cmd.Flags().StringVar(&borrower, "borrower", "", "only copies lent to this user")
	cmd.Flags().IntVar(&bookID, "book", 0, "only copies of this book id")
	return cmd
}

func bookIDs(items []model.BookInstance) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, inst := range items {
		if inst.BookID == nil {
			continue
		}
		if _, ok := seen[*inst.BookID]; !ok {
			seen[*inst.BookID] = struct{}{}
			ids = append(ids, *inst.BookID)
		}
	}
	return ids
}

func printOverdue(out io.Writer, today model.Date, items []model.BookInstance, titles map[int]string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE\tBOOK\tBORROWER\tDUE BACK\tDAYS LATE")
	for _, inst := range items {
		title := "-"
		if inst.BookID != nil {
			if t, ok := titles[*inst.BookID]; ok {
				title = t
			}
		}
		borrower := "-"
		if inst.Borrower != nil {
			borrower = *inst.Borrower
		}
		late := int(today.Sub(inst.DueBack.Time).Hours() / 24)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", inst.ID, title, borrower, inst.DueBack, strconv.Itoa(late))
	}
	fmt.Fprintf(w, "%d overdue\n", len(items))
	return w.Flush()
}
