package stubs

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

func TestMemoryDB_ListGenresPaging(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	for _, name := range []string{"Fantasy", "Horror", "Poetry", "Science Fiction", "Western"} {
		_, err := db.CreateGenre(ctx, model.Genre{Name: name})
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		page model.Page
		want []string
	}{
		{name: "everything", page: model.Page{}, want: []string{"Fantasy", "Horror", "Poetry", "Science Fiction", "Western"}},
		{name: "first page", page: model.Page{Page: 1, Size: 2}, want: []string{"Fantasy", "Horror"}},
		{name: "last partial page", page: model.Page{Page: 3, Size: 2}, want: []string{"Western"}},
		{name: "past the end", page: model.Page{Page: 4, Size: 2}, want: []string{}},
		{name: "huge page", page: model.Page{Page: 1 << 62, Size: 4}, want: []string{}},
		{name: "huge size", page: model.Page{Page: 1, Size: math.MaxInt}, want: []string{"Fantasy", "Horror", "Poetry", "Science Fiction", "Western"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := db.ListGenres(ctx, model.NameFilter{Page: tt.page})
			require.NoError(t, err)
			require.Equal(t, 5, list.TotalElements)
			names := make([]string, 0, len(list.Items))
			for _, g := range list.Items {
				names = append(names, g.Name)
			}
			require.Equal(t, tt.want, names)
		})
	}
}
