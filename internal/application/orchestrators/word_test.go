package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"kupu/internal/application/authz"
	"kupu/internal/domain/entry"
)

type mockAuthorizer struct {
	err   error
	calls int
}

func (m *mockAuthorizer) Require(_ context.Context, _ authz.Identity) error {
	m.calls++
	return m.err
}

type mockEntryStore struct {
	entries map[string]entry.Entry
	saves   int
	deletes int
}

func newMockEntryStore() *mockEntryStore {
	return &mockEntryStore{entries: make(map[string]entry.Entry)}
}

func (m *mockEntryStore) GetByID(_ context.Context, id string) (entry.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return entry.Entry{}, entry.ErrNotFound
	}
	return e, nil
}

func (m *mockEntryStore) FindIDByMaori(_ context.Context, maori, excludeID string) (string, error) {
	for id, e := range m.entries {
		if e.Maori == maori && id != excludeID {
			return id, nil
		}
	}
	return "", entry.ErrNotFound
}

func (m *mockEntryStore) Save(_ context.Context, e entry.Entry) error {
	m.saves++
	m.entries[e.ID] = e
	return nil
}

func (m *mockEntryStore) Delete(_ context.Context, id string) error {
	m.deletes++
	delete(m.entries, id)
	return nil
}

func wordTestDeps(store *mockEntryStore, gate *mockAuthorizer) WordDeps {
	return WordDeps{
		EntryStore: store,
		Gate:       gate,
		GenerateID: func() string { return "generated-id" },
		Now:        func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func teacherCaller() authz.Identity {
	return authz.Identity{AccountID: "acct-1", Email: "mere@school.nz", FirstName: "Mere", LastName: "Ngata", RoleName: "teacher"}
}

func TestExecuteAddWordForbidden(t *testing.T) {
	store := newMockEntryStore()
	gate := &mockAuthorizer{err: authz.ErrForbidden}

	_, err := ExecuteAddWord(context.Background(), AddWordInput{
		Maori: "kurī", English: "dog", Level: "1",
	}, wordTestDeps(store, gate))
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0 (gate must run before any write)", store.saves)
	}
}

func TestExecuteAddWord(t *testing.T) {
	store := newMockEntryStore()
	gate := &mockAuthorizer{}

	e, err := ExecuteAddWord(context.Background(), AddWordInput{
		Maori:       " kurī ",
		English:     "dog",
		Description: "A four-legged companion.",
		Level:       "2",
		CategoryID:  "cat-1",
		Caller:      teacherCaller(),
	}, wordTestDeps(store, gate))
	if err != nil {
		t.Fatalf("ExecuteAddWord: %v", err)
	}
	if e.ID != "generated-id" {
		t.Errorf("ID = %q, want generated-id", e.ID)
	}
	if e.Maori != "kurī" {
		t.Errorf("Maori = %q, want trimmed kurī", e.Maori)
	}
	if e.Level != 2 {
		t.Errorf("Level = %d, want 2", e.Level)
	}
	if e.EditedBy != "acct-1" {
		t.Errorf("EditedBy = %q, want acct-1", e.EditedBy)
	}
	if e.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}
	if gate.calls != 1 {
		t.Errorf("gate calls = %d, want 1", gate.calls)
	}
	if _, ok := store.entries["generated-id"]; !ok {
		t.Error("entry not saved")
	}
}

func TestExecuteAddWordInvalidLevel(t *testing.T) {
	store := newMockEntryStore()
	gate := &mockAuthorizer{}

	for _, level := range []string{"", "abc", "0", "11"} {
		_, err := ExecuteAddWord(context.Background(), AddWordInput{
			Maori: "kurī", English: "dog", Level: level, Caller: teacherCaller(),
		}, wordTestDeps(store, gate))
		if !errors.Is(err, entry.ErrInvalidLevel) {
			t.Errorf("level %q: err = %v, want ErrInvalidLevel", level, err)
		}
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestExecuteAddWordDuplicateHeadword(t *testing.T) {
	store := newMockEntryStore()
	store.entries["existing"] = entry.Entry{ID: "existing", Maori: "kurī", English: "dog", Level: 1}
	gate := &mockAuthorizer{}

	_, err := ExecuteAddWord(context.Background(), AddWordInput{
		Maori: "kurī", English: "hound", Level: "1", Caller: teacherCaller(),
	}, wordTestDeps(store, gate))
	if !errors.Is(err, entry.ErrDuplicateHeadword) {
		t.Fatalf("err = %v, want ErrDuplicateHeadword", err)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestExecuteUpdateWord(t *testing.T) {
	store := newMockEntryStore()
	store.entries["e1"] = entry.Entry{
		ID: "e1", Maori: "kurī", English: "dog", Level: 1, CategoryID: "cat-1",
		UpdatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), EditedBy: "someone-else",
	}
	gate := &mockAuthorizer{}

	e, err := ExecuteUpdateWord(context.Background(), UpdateWordInput{
		EntryID: "e1", Maori: "kurī", English: "hound", Level: "3", Caller: teacherCaller(),
	}, wordTestDeps(store, gate))
	if err != nil {
		t.Fatalf("ExecuteUpdateWord: %v", err)
	}
	if e.English != "hound" || e.Level != 3 {
		t.Errorf("got %+v, want updated english and level", e)
	}
	if e.EditedBy != "acct-1" {
		t.Errorf("EditedBy = %q, want acct-1 (re-stamped on edit)", e.EditedBy)
	}
	if e.CategoryID != "cat-1" {
		t.Errorf("CategoryID = %q, want preserved cat-1", e.CategoryID)
	}
	if !e.UpdatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("UpdatedAt = %v, want re-stamped", e.UpdatedAt)
	}
}

// Keeping an entry's own headword on update must not count as a
// duplicate; only a collision with another entry does.
func TestExecuteUpdateWordHeadwordCollision(t *testing.T) {
	store := newMockEntryStore()
	store.entries["e1"] = entry.Entry{ID: "e1", Maori: "kurī", English: "dog", Level: 1}
	store.entries["e2"] = entry.Entry{ID: "e2", Maori: "whero", English: "red", Level: 1}
	gate := &mockAuthorizer{}

	_, err := ExecuteUpdateWord(context.Background(), UpdateWordInput{
		EntryID: "e1", Maori: "kurī", English: "dog updated", Level: "1", Caller: teacherCaller(),
	}, wordTestDeps(store, gate))
	if err != nil {
		t.Fatalf("same headword should be allowed: %v", err)
	}

	_, err = ExecuteUpdateWord(context.Background(), UpdateWordInput{
		EntryID: "e1", Maori: "whero", English: "dog", Level: "1", Caller: teacherCaller(),
	}, wordTestDeps(store, gate))
	if !errors.Is(err, entry.ErrDuplicateHeadword) {
		t.Fatalf("err = %v, want ErrDuplicateHeadword", err)
	}
}

func TestExecuteUpdateWordNotFound(t *testing.T) {
	store := newMockEntryStore()
	gate := &mockAuthorizer{}

	_, err := ExecuteUpdateWord(context.Background(), UpdateWordInput{
		EntryID: "missing", Maori: "kurī", English: "dog", Level: "1", Caller: teacherCaller(),
	}, wordTestDeps(store, gate))
	if !errors.Is(err, entry.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExecuteDeleteWord(t *testing.T) {
	store := newMockEntryStore()
	store.entries["e1"] = entry.Entry{ID: "e1", Maori: "kurī", English: "dog", Level: 1}
	gate := &mockAuthorizer{}

	err := ExecuteDeleteWord(context.Background(), DeleteWordInput{EntryID: "e1", Caller: teacherCaller()}, wordTestDeps(store, gate))
	if err != nil {
		t.Fatalf("ExecuteDeleteWord: %v", err)
	}
	if _, ok := store.entries["e1"]; ok {
		t.Error("entry still present after delete")
	}
}

func TestExecuteDeleteWordForbidden(t *testing.T) {
	store := newMockEntryStore()
	store.entries["e1"] = entry.Entry{ID: "e1", Maori: "kurī", English: "dog", Level: 1}
	gate := &mockAuthorizer{err: authz.ErrForbidden}

	err := ExecuteDeleteWord(context.Background(), DeleteWordInput{EntryID: "e1"}, wordTestDeps(store, gate))
	if !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if store.deletes != 0 {
		t.Errorf("deletes = %d, want 0", store.deletes)
	}
}
