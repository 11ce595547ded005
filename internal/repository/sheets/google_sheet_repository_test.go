package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
)

func TestDigestRow(t *testing.T) {
	row := DigestRow(models.DailyDigest{Date: "2026-10-19", Overdue: 2, Due3: 1, LowMilk: 3, TopAnimalID: "ani_1", TopLiters: 120})

	require.Len(t, row, 9)
	assert.Equal(t, "2026-10-19", row[0])
	assert.Equal(t, 2, row[1])
	assert.Equal(t, 3, row[5])
	assert.Equal(t, "ani_1", row[7])
	assert.Equal(t, 120.0, row[8])
}

func TestWriteRowAppendsValues(t *testing.T) {
	var gotPath, gotOption string
	var gotBody struct {
		Values [][]any `json:"values"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOption = r.URL.Query().Get("valueInputOption")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	}))
	defer srv.Close()

	repo, err := newRepository(context.Background(), "sheet-1", nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	err = repo.WriteRow(context.Background(), DigestRange, []interface{}{"2026-10-19", 1})
	require.NoError(t, err)

	assert.Contains(t, gotPath, "/v4/spreadsheets/sheet-1/values/")
	assert.Contains(t, gotPath, ":append")
	assert.Equal(t, "USER_ENTERED", gotOption)
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, "2026-10-19", gotBody.Values[0][0])
}

func TestWriteRowRejectsEmptyRange(t *testing.T) {
	repo := &GoogleSheetRepository{}
	assert.Error(t, repo.WriteRow(context.Background(), "", nil))
}
