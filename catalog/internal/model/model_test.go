package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "ok", in: "2024-05-15", want: NewDate(2024, time.May, 15)},
		{name: "padded", in: " 1920-10-08 ", want: NewDate(1920, time.October, 8)},
		{name: "wrong layout", in: "15/05/2024", wantErr: true},
		{name: "no such day", in: "2023-02-29", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDate_JSON(t *testing.T) {
	a := Author{FirstName: "Frank", LastName: "Herbert", DateOfBirth: ptr(NewDate(1920, time.October, 8))}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":0,"firstName":"Frank","lastName":"Herbert","dateOfBirth":"1920-10-08","dateOfDeath":null}`, string(b))

	var back Author
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, a, back)

	require.Error(t, json.Unmarshal([]byte(`{"dateOfBirth":"yesterday"}`), &back))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.May, 15, 23, 59, 0, 0, time.UTC)))
	require.Equal(t, NewDate(2024, time.May, 15), d)

	require.NoError(t, d.Scan("2024-01-02"))
	require.Equal(t, NewDate(2024, time.January, 2), d)

	require.NoError(t, d.Scan(nil))
	require.True(t, d.IsZero())

	require.Error(t, d.Scan(42))

	v, err := NewDate(2024, time.May, 15).Value()
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), v)
}

func TestDate_AddDays(t *testing.T) {
	require.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 28).AddDays(2))
	require.Equal(t, NewDate(2023, time.December, 31), NewDate(2024, time.January, 1).AddDays(-1))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "o", want: StatusOnLoan},
		{in: "On loan", want: StatusOnLoan},
		{in: "on-loan", want: StatusOnLoan},
		{in: "on_loan", want: StatusOnLoan},
		{in: " M ", want: StatusMaintenance},
		{in: "available", want: StatusAvailable},
		{in: "Reserved", want: StatusReserved},
		{in: "lost", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStatusChoices(t *testing.T) {
	require.Equal(t, []Choice{
		{Value: "m", Label: "Maintenance"},
		{Value: "o", Label: "On loan"},
		{Value: "a", Label: "Available"},
		{Value: "r", Label: "Reserved"},
	}, StatusChoices())
	require.Equal(t, "x", Status("x").Label())
	require.False(t, Status("x").Valid())
	require.True(t, StatusReserved.Valid())
}

func TestBookInstance_IsOverdue(t *testing.T) {
	now := time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		dueBack *Date
		want    bool
	}{
		{name: "no due date", dueBack: nil},
		{name: "due yesterday", dueBack: ptr(NewDate(2024, time.May, 14)), want: true},
		{name: "due today", dueBack: ptr(NewDate(2024, time.May, 15))},
		{name: "due tomorrow", dueBack: ptr(NewDate(2024, time.May, 16))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BookInstance{DueBack: tt.dueBack}.IsOverdue(now))
		})
	}
}

func TestStrings(t *testing.T) {
	require.Equal(t, "Herbert Frank", Author{FirstName: "Frank", LastName: "Herbert"}.String())
	require.Equal(t, "/catalog/author/3", Author{ID: 3}.URL())
	require.Equal(t, "/catalog/book/9", Book{ID: 9}.URL())

	inst := BookInstance{}
	require.Equal(t, "00000000-0000-0000-0000-000000000000 (Dune)", inst.Label("Dune"))
	require.Equal(t, "00000000-0000-0000-0000-000000000000", inst.Label(""))
}

func TestPage(t *testing.T) {
	require.False(t, Page{}.Limited())
	require.Equal(t, 0, Page{Size: 10}.Offset())
	require.Equal(t, 20, Page{Page: 3, Size: 10}.Offset())
	require.Equal(t, math.MaxInt, Page{Page: 1 << 62, Size: 4}.Offset())
	require.Equal(t, math.MaxInt-math.MaxInt%7, Page{Page: math.MaxInt/7 + 1, Size: 7}.Offset())
}

func ptr[T any](v T) *T { return &v }
