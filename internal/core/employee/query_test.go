package employee

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

var today = date(2026, 10, 16)

func rosterFixture() []*Employee {
	return []*Employee{
		{ID: 1, FirstName: "John", LastName: "Doe", Email: "b@x.com", ContractType: ContractTypePermanent, EmploymentBasis: EmploymentBasisFullTime, StartDate: date(2020, 3, 1), Ongoing: true},
		{ID: 2, FirstName: "Sarah", LastName: "Smith", Email: "c@x.com", ContractType: ContractTypeContract, EmploymentBasis: EmploymentBasisPartTime, StartDate: date(2021, 6, 1), FinishDate: ptr(date(2025, 2, 1)), Ongoing: true},
		{ID: 3, FirstName: "Michael", LastName: "Wong", Email: "a@x.com", ContractType: ContractTypePermanent, EmploymentBasis: EmploymentBasisFullTime, StartDate: date(2019, 1, 1), FinishDate: ptr(date(2024, 12, 31))},
	}
}

func bigRoster(n int) []*Employee {
	out := make([]*Employee, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &Employee{
			ID:              int64(i + 1),
			FirstName:       fmt.Sprintf("name-%02d", i%7),
			LastName:        fmt.Sprintf("last-%02d", i),
			Email:           fmt.Sprintf("user%02d@x.com", i),
			ContractType:    contractTypes[i%2],
			EmploymentBasis: employmentBases[i%2],
			StartDate:       date(2020, 1, 1+i%5),
			Ongoing:         true,
		})
	}
	return out
}

func search(population []*Employee, c Criteria, sortBy, dir string, page, size int) ([]*Employee, int) {
	p, _ := NormalizePage(PageRequest{Page: page, Size: size}, MaxPageSize)
	return Run(population, Query{Filter: c.Normalize(today), Sort: ParseSort(sortBy, dir), Page: p})
}

func TestRun_OngoingFalseUsesFinishDate(t *testing.T) {
	t.Parallel()

	items, total := search(rosterFixture(), Criteria{Active: ptr(false)}, "", "", 0, 10)

	if len(items) != 1 || total != 1 {
		t.Fatalf("expected exactly one inactive record, got %d (total %d)", len(items), total)
	}
	if items[0].FirstName != "Michael" {
		t.Fatalf("expected Michael, got %s", items[0].FirstName)
	}
}

func TestRun_SizeTenOnThreeRecords(t *testing.T) {
	t.Parallel()

	items, total := search(rosterFixture(), Criteria{}, "firstName", "asc", 0, 10)
	if len(items) != 3 || total != 3 {
		t.Fatalf("expected 3 items and total 3, got %d / %d", len(items), total)
	}
	if pages := TotalPages(total, 10); pages != 1 {
		t.Fatalf("expected 1 page, got %d", pages)
	}

	items, total = search(rosterFixture(), Criteria{}, "firstName", "asc", 1, 10)
	if len(items) != 0 || total != 3 {
		t.Fatalf("expected empty second page with total 3, got %d / %d", len(items), total)
	}
}

func TestRun_EmailDescending(t *testing.T) {
	t.Parallel()

	items, _ := search(rosterFixture(), Criteria{}, "email", "desc", 0, 10)

	got := emails(items)
	want := []string{"c@x.com", "b@x.com", "a@x.com"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRun_UnknownSortFieldFallsBackToFirstName(t *testing.T) {
	t.Parallel()

	population := bigRoster(20)
	want, _ := search(population, Criteria{}, "firstName", "asc", 0, 20)
	for _, field := range []string{"salary", "", "'; DROP TABLE employees; --"} {
		got, _ := search(population, Criteria{}, field, "asc", 0, 20)
		if !slices.Equal(ids(got), ids(want)) {
			t.Errorf("field %q: expected %v, got %v", field, ids(want), ids(got))
		}
	}
}

func TestRun_UnknownEnumFilterHasNoEffect(t *testing.T) {
	t.Parallel()

	population := bigRoster(12)
	_, unfiltered := search(population, Criteria{}, "", "", 0, 50)

	for _, raw := range []string{"ALL", "all", "", "TEMPORARY"} {
		_, total := search(population, Criteria{ContractType: ptr(raw), EmploymentBasis: ptr(raw)}, "", "", 0, 50)
		if total != unfiltered {
			t.Errorf("value %q: expected %d, got %d", raw, unfiltered, total)
		}
	}

	if _, permanent := search(population, Criteria{ContractType: ptr("permanent")}, "", "", 0, 50); permanent != 6 {
		t.Errorf("expected 6 permanent, got %d", permanent)
	}
	if _, partTime := search(population, Criteria{EmploymentBasis: ptr("part-time")}, "", "", 0, 50); partTime != 6 {
		t.Errorf("expected 6 part-time, got %d", partTime)
	}
}

func TestRun_NameMatchesFirstOrLastSubstring(t *testing.T) {
	t.Parallel()

	items, _ := search(rosterFixture(), Criteria{Name: ptr("  mI ")}, "", "", 0, 10)
	if got := ids(items); !slices.Equal(got, []int64{3, 2}) {
		t.Fatalf("expected Michael then Sarah, got %v", got)
	}

	items, _ = search(rosterFixture(), Criteria{Name: ptr("wong")}, "", "", 0, 10)
	if got := ids(items); !slices.Equal(got, []int64{3}) {
		t.Fatalf("expected only id 3, got %v", got)
	}
}

func TestRun_ActiveTrueIncludesFutureFinishDates(t *testing.T) {
	t.Parallel()

	population := rosterFixture()
	population = append(population, &Employee{ID: 4, FirstName: "Zoe", StartDate: date(2022, 1, 1), FinishDate: ptr(today)})

	items, _ := search(population, Criteria{Active: ptr(true)}, "", "", 0, 10)
	if got := ids(items); !slices.Equal(got, []int64{1, 4}) {
		t.Fatalf("expected [1 4], got %v", got)
	}
}

func TestRun_PaginationIsComplete(t *testing.T) {
	t.Parallel()

	population := bigRoster(47)
	for _, sortBy := range []string{"firstName", "lastName", "email", "startDate", "contractType"} {
		for _, dir := range []string{"asc", "desc"} {
			for _, size := range []int{1, 5, 10, 47, 100} {
				seen := make(map[int64]int)
				_, total := search(population, Criteria{}, sortBy, dir, 0, size)
				pages := TotalPages(total, size)

				var ordered []*Employee
				for page := 0; page < pages; page++ {
					items, _ := search(population, Criteria{}, sortBy, dir, page, size)
					if len(items) == 0 || len(items) > size {
						t.Fatalf("%s %s size=%d page=%d: unexpected page length %d", sortBy, dir, size, page, len(items))
					}
					for _, e := range items {
						seen[e.ID]++
					}
					ordered = append(ordered, items...)
				}

				if beyond, _ := search(population, Criteria{}, sortBy, dir, pages, size); len(beyond) != 0 {
					t.Fatalf("%s %s size=%d: page %d should be empty", sortBy, dir, size, pages)
				}

				if len(seen) != total {
					t.Fatalf("%s %s size=%d: saw %d distinct records, want %d", sortBy, dir, size, len(seen), total)
				}
				for id, n := range seen {
					if n != 1 {
						t.Fatalf("id %d seen %d times", id, n)
					}
				}

				s := ParseSort(sortBy, dir)
				for i := 1; i < len(ordered); i++ {
					if s.Compare(ordered[i-1], ordered[i]) >= 0 {
						t.Fatalf("%s %s size=%d: records %d and %d out of order", sortBy, dir, size, ordered[i-1].ID, ordered[i].ID)
					}
				}
			}
		}
	}
}

func TestRun_DoesNotMutatePopulation(t *testing.T) {
	t.Parallel()

	population := rosterFixture()
	search(population, Criteria{}, "email", "asc", 0, 10)

	if got := ids(population); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Fatalf("population reordered: %v", got)
	}
}

// 名前の比較は小文字化後のバイト順で、空白やアポストロフィも読み飛ばさない。
func TestSortCompare_LowercasedByteOrder(t *testing.T) {
	t.Parallel()

	population := []*Employee{
		{ID: 1, FirstName: "Maryam", LastName: "Obi"},
		{ID: 2, FirstName: "Mary Ann", LastName: "O'Brien"},
		{ID: 3, FirstName: "mary-kate", LastName: "Oban"},
		{ID: 4, FirstName: "Mary", LastName: "O Connor"},
		{ID: 5, FirstName: "MARYAM", LastName: "obi"},
	}

	byFirst, _ := search(population, Criteria{}, "firstName", "asc", 0, 10)
	if got, want := ids(byFirst), []int64{4, 2, 3, 1, 5}; !slices.Equal(got, want) {
		t.Fatalf("first name order: expected %v, got %v", want, got)
	}

	byLast, _ := search(population, Criteria{}, "lastName", "asc", 0, 10)
	if got, want := ids(byLast), []int64{4, 2, 3, 1, 5}; !slices.Equal(got, want) {
		t.Fatalf("last name order: expected %v, got %v", want, got)
	}
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	cases := map[string]Sort{
		"firstName":     {SortByFirstName, Ascending},
		"LAST_NAME":     {SortByLastName, Ascending},
		"start_date":    {SortByStartDate, Ascending},
		"contracttype":  {SortByContractType, Ascending},
		"email":         {SortByEmail, Ascending},
		"hoursPerWeek":  DefaultSort,
		"mobile_number": DefaultSort,
	}
	for field, want := range cases {
		if got := ParseSort(field, "ASC"); got != want {
			t.Errorf("ParseSort(%q) = %+v, want %+v", field, got, want)
		}
	}

	directions := map[string]Direction{"DESC": Descending, "descending": Descending, "down": Ascending}
	for raw, want := range directions {
		if got := ParseSort("email", raw).Direction; got != want {
			t.Errorf("direction %q = %s, want %s", raw, got, want)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	t.Parallel()

	p, err := NormalizePage(PageRequest{Page: 2, Size: 0}, 50)
	if err != nil || p != (PageRequest{Page: 2, Size: 1}) {
		t.Fatalf("expected size clamped to 1, got %+v (err %v)", p, err)
	}

	p, err = NormalizePage(PageRequest{Page: 0, Size: 500}, 50)
	if err != nil || p.Size != 50 {
		t.Fatalf("expected size clamped to 50, got %+v (err %v)", p, err)
	}

	if _, err = NormalizePage(PageRequest{Page: -1, Size: 10}, 50); !errors.Is(err, ErrInvalidPageIndex) {
		t.Fatalf("expected ErrInvalidPageIndex, got %v", err)
	}

	if TotalPages(0, 10) != 0 || TotalPages(21, 10) != 3 {
		t.Fatalf("unexpected TotalPages results")
	}
}

func ids(items []*Employee) []int64 {
	out := make([]int64, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID)
	}
	return out
}

func emails(items []*Employee) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.Email)
	}
	return out
}
