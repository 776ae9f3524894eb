package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hungryfoodies/WordSquare/internal/game"
	"github.com/Hungryfoodies/WordSquare/internal/history"
	"github.com/Hungryfoodies/WordSquare/internal/puzzle"
	"github.com/Hungryfoodies/WordSquare/internal/store"
	"github.com/Hungryfoodies/WordSquare/internal/words"
)

const testPresets = `
presets:
  - name: cat-dog
    grid_size: 5
    target_score: 15
    rows: ["CAT", "DOG"]
  - name: easy
    grid_size: 5
    target_score: 10
    rows: ["CAT", "DOG"]
`

var testNow = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, hist *history.Store) *Server {
	t.Helper()
	set, err := puzzle.Parse(strings.NewReader(testPresets))
	require.NoError(t, err)
	return New(store.NewMemoryStore(), Options{
		Dictionary:    words.LoadString("cat\ndog\ncart\n"),
		Presets:       set,
		DefaultPreset: "cat-dog",
		History:       hist,
		JWTSecret:     "test-secret",
		DailySalt:     "salt",
		Now:           func() time.Time { return testNow },
	})
}

// do sends a JSON request and returns the recorder.
func do(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func newGame(t *testing.T, h http.Handler, body any) gameRes {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/game/new", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[gameRes](t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	s.opts.DictionaryErr = errors.New("words: missing.txt: no such file")

	rec := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[map[string]any](t, rec)
	assert.Equal(t, true, res["ok"])
	assert.EqualValues(t, 3, res["words"])
	assert.EqualValues(t, 2, res["presets"])
	assert.Equal(t, false, res["history"])
	assert.Contains(t, res["dictionaryError"], "missing.txt")
}

func TestLettersAndPresets(t *testing.T) {
	s := newTestServer(t, nil)

	letters := decode[[]game.LetterValue](t, do(t, s, http.MethodGet, "/letters", nil))
	require.Len(t, letters, 26)
	assert.Equal(t, "Q", letters[16].Letter)
	assert.Equal(t, 10, letters[16].Points)

	presets := decode[[]puzzle.Preset](t, do(t, s, http.MethodGet, "/presets", nil))
	require.Len(t, presets, 2)
	assert.Equal(t, "cat-dog", presets[0].Name)
	assert.Len(t, presets[0].Letters, 6)
}

func TestNewGameDefaultsToConfiguredPreset(t *testing.T) {
	s := newTestServer(t, nil)

	g := newGame(t, s, nil)
	assert.NotEmpty(t, g.GameID)
	assert.Equal(t, "cat-dog", g.Preset)
	assert.Equal(t, 5, g.State.Size)
	assert.Equal(t, 15, g.State.TargetScore)
	assert.Equal(t, []string{"C", "A", "T", " ", " "}, g.State.Grid[0])
	assert.Len(t, g.State.Locked, 6)
	assert.Equal(t, game.Horizontal, g.State.Direction)
}

func TestNewGameCustomAndErrors(t *testing.T) {
	s := newTestServer(t, nil)

	g := newGame(t, s, map[string]int{"gridSize": 3, "targetScore": 4})
	assert.Empty(t, g.Preset)
	assert.Equal(t, 3, g.State.Size)
	assert.Equal(t, 4, g.State.TargetScore)
	assert.Empty(t, g.State.Locked)

	rec := do(t, s, http.MethodPost, "/game/new", map[string]int{"gridSize": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad_grid_size")

	rec = do(t, s, http.MethodPost, "/game/new", map[string]string{"preset": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_preset")

	g = newGame(t, s, map[string]string{"preset": "random"})
	assert.Contains(t, []string{"cat-dog", "easy"}, g.Preset)
}

func TestTypeBackspaceAndDirection(t *testing.T) {
	s := newTestServer(t, nil)
	g := newGame(t, s, nil)
	base := "/game/" + g.GameID

	rec := do(t, s, http.MethodPost, base+"/type", cellReq{Row: 2, Col: 4, Char: "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	mv := decode[moveRes](t, rec)
	assert.True(t, mv.Applied)
	assert.Equal(t, game.Position{Row: 3, Col: 0}, mv.Cursor)
	assert.Equal(t, "X", mv.State.Grid[2][4])

	// Invalid input is not an error.
	for _, bad := range []cellReq{
		{Row: 0, Col: 0, Char: "Z"}, // locked
		{Row: 2, Col: 0, Char: "1"},
		{Row: 2, Col: 0, Char: "ab"},
		{Row: 9, Col: 0, Char: "A"},
	} {
		rec = do(t, s, http.MethodPost, base+"/type", bad)
		require.Equal(t, http.StatusOK, rec.Code)
		mv = decode[moveRes](t, rec)
		assert.False(t, mv.Applied, "%+v", bad)
		assert.Equal(t, game.Position{Row: 3, Col: 0}, mv.Cursor)
	}

	rec = do(t, s, http.MethodPost, base+"/direction", map[string]string{"direction": "down"})
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[game.State](t, rec)
	assert.Equal(t, game.Vertical, st.Direction)

	rec = do(t, s, http.MethodPost, base+"/direction", map[string]string{"direction": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mv = decode[moveRes](t, do(t, s, http.MethodPost, base+"/backspace", cellReq{Row: 2, Col: 4}))
	assert.True(t, mv.Applied)
	assert.Equal(t, game.Position{Row: 1, Col: 4}, mv.Cursor)
	assert.Equal(t, " ", mv.State.Grid[2][4])

	mv = decode[moveRes](t, do(t, s, http.MethodPost, base+"/cursor", cellReq{Row: 4, Col: 4}))
	assert.True(t, mv.Applied)
	assert.Equal(t, game.Position{Row: 4, Col: 4}, mv.State.Cursor)
}

func TestCheckAndWinReset(t *testing.T) {
	s := newTestServer(t, nil)

	g := newGame(t, s, nil)
	rec := do(t, s, http.MethodPost, "/game/"+g.GameID+"/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[checkRes](t, rec)
	assert.Equal(t, []string{"CAT", "DOG"}, res.ValidRows)
	assert.Empty(t, res.ValidCols)
	assert.Equal(t, 10, res.Score)
	assert.False(t, res.Won)
	assert.Equal(t, 10, res.State.Score)

	g = newGame(t, s, map[string]string{"preset": "easy"})
	base := "/game/" + g.GameID
	do(t, s, http.MethodPost, base+"/type", cellReq{Row: 3, Col: 3, Char: "q"})
	res = decode[checkRes](t, do(t, s, http.MethodPost, base+"/check", nil))
	assert.True(t, res.Won)
	assert.Equal(t, 10, res.Score)
	assert.Equal(t, " ", res.State.Grid[3][3])
	assert.Equal(t, "C", res.State.Grid[0][0])
	assert.Equal(t, 0, res.State.Score)
}

func TestResetAndDelete(t *testing.T) {
	s := newTestServer(t, nil)
	g := newGame(t, s, nil)
	base := "/game/" + g.GameID

	do(t, s, http.MethodPost, base+"/backspace", cellReq{Row: 0, Col: 0})
	do(t, s, http.MethodPost, base+"/type", cellReq{Row: 4, Col: 0, Char: "e"})
	st := decode[game.State](t, do(t, s, http.MethodPost, base+"/reset", nil))
	assert.Equal(t, "C", st.Grid[0][0])
	assert.Equal(t, " ", st.Grid[4][0])

	got := decode[gameRes](t, do(t, s, http.MethodGet, base, nil))
	assert.Equal(t, g.GameID, got.GameID)

	assert.Equal(t, http.StatusNoContent, do(t, s, http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, base, nil).Code)
}

func TestUnknownSessionAndRoute(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/game/missing/type", cellReq{Char: "A"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")

	rec = do(t, s, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/nowhere")
}

func TestDailyIsDeterministic(t *testing.T) {
	s := newTestServer(t, nil)

	a := decode[gameRes](t, do(t, s, http.MethodPost, "/daily/new", nil))
	b := decode[gameRes](t, do(t, s, http.MethodPost, "/daily/new", nil))
	assert.Equal(t, "2024-03-09", a.Daily)
	assert.Equal(t, a.Preset, b.Preset)
	assert.NotEqual(t, a.GameID, b.GameID)

	got := decode[gameRes](t, do(t, s, http.MethodGet, "/game/"+a.GameID, nil))
	assert.Equal(t, "2024-03-09", got.Daily)
}

func TestHistoryRoutesDisabledWithoutDatabase(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/auth/me", "/rounds/mine", "/daily/leaderboard"} {
		rec := do(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "history_disabled")
	}
	rec := do(t, s, http.MethodPost, "/auth/signup", credentialsReq{Username: "alice", Password: "password1"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodOptions, "/game/new", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
