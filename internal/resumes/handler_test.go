package resumes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-composer/internal/bootstrap"
	"resume-composer/internal/shared/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "handler-secret")

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": username,
		"password": "sturdy-passphrase",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &out)
	if out.Token == "" {
		t.Fatalf("register: expected a token")
	}
	return out.Token
}

func masterResumeID(t *testing.T, router *gin.Engine, token string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodGet, "/api/v1/resumes?master=true", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("load master: expected status 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	var master struct {
		ID       string `json:"id"`
		IsMaster bool   `json:"isMaster"`
	}
	decodeBody(t, resp, &master)
	if master.ID == "" || !master.IsMaster {
		t.Fatalf("expected a seeded master resume, got %+v", master)
	}
	return master.ID
}

func createResume(t *testing.T, router *gin.Engine, token, name string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", token, map[string]any{"name": name})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create resume: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	var resume struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &resume)
	return resume.ID
}

func createEducation(t *testing.T, router *gin.Engine, token, masterID, school string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+masterID+"/educations", token, map[string]any{
		"education": map[string]any{"school": school},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create education: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	var placement struct {
		Education struct {
			ID string `json:"id"`
		} `json:"education"`
	}
	decodeBody(t, resp, &placement)
	if placement.Education.ID == "" {
		t.Fatalf("create education: expected an entry id")
	}
	return placement.Education.ID
}

type educationPlacement struct {
	Position  int `json:"position"`
	Education struct {
		ID     string `json:"id"`
		School string `json:"school"`
	} `json:"education"`
}

func listEducations(t *testing.T, router *gin.Engine, token, resumeID string) []educationPlacement {
	t.Helper()
	resp := doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+resumeID+"/educations", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list educations: expected status 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	var placements []educationPlacement
	decodeBody(t, resp, &placements)
	return placements
}

// Walks one resume through its life: entries created through the master,
// attached to a second resume, reordered, detached and appended. Appending
// after a detach lands past the gap; the served order only ever follows
// positions.
func TestEducationPlacementFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "casey")
	master := masterResumeID(t, router, token)

	aID := createEducation(t, router, token, master, "School A")
	bID := createEducation(t, router, token, master, "School B")
	cID := createEducation(t, router, token, master, "School C")

	targeted := createResume(t, router, token, "Targeted")

	for i, id := range []string{aID, bID, cID} {
		resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+targeted+"/educations", token, map[string]any{
			"educationId": id,
		})
		if resp.Code != http.StatusCreated {
			t.Fatalf("attach %d: expected status 201, got %d (%s)", i, resp.Code, resp.Body.String())
		}
		var placement struct {
			Position int `json:"position"`
		}
		decodeBody(t, resp, &placement)
		if placement.Position != i {
			t.Fatalf("attach %d: expected position %d, got %d", i, i, placement.Position)
		}
	}

	resp := doJSON(t, router, http.MethodPut, "/api/v1/resumes/"+targeted+"/educations", token, map[string]any{
		"order": []string{cID, aID, bID},
	})
	if resp.Code != http.StatusNoContent {
		t.Fatalf("reorder: expected status 204, got %d (%s)", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/resumes/"+targeted+"/educations/"+aID, token, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("detach: expected status 204, got %d (%s)", resp.Code, resp.Body.String())
	}

	xID := createEducation(t, router, token, master, "School X")
	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+targeted+"/educations", token, map[string]any{
		"educationId": xID,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("append: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	var appended struct {
		Position int `json:"position"`
	}
	decodeBody(t, resp, &appended)
	if appended.Position != 3 {
		t.Fatalf("append after detach: expected position 3, got %d", appended.Position)
	}

	placements := listEducations(t, router, token, targeted)
	wantSchools := []string{"School C", "School B", "School X"}
	if len(placements) != len(wantSchools) {
		t.Fatalf("expected %d placements, got %d", len(wantSchools), len(placements))
	}
	for i, want := range wantSchools {
		if placements[i].Education.School != want {
			t.Fatalf("placement %d: expected %q, got %q", i, want, placements[i].Education.School)
		}
	}

	// The composed document serves the same order.
	resp = doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+targeted+"/content", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("content: expected status 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	var composed struct {
		Educations []educationPlacement `json:"educations"`
	}
	decodeBody(t, resp, &composed)
	if len(composed.Educations) != len(wantSchools) {
		t.Fatalf("composed: expected %d educations, got %d", len(wantSchools), len(composed.Educations))
	}
	for i, want := range wantSchools {
		if composed.Educations[i].Education.School != want {
			t.Fatalf("composed %d: expected %q, got %q", i, want, composed.Educations[i].Education.School)
		}
	}

	// The master kept every library entry, including the detached one.
	if got := len(listEducations(t, router, token, master)); got != 4 {
		t.Fatalf("master: expected 4 placements, got %d", got)
	}
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/resumes", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error.Code != "unauthorized" {
		t.Fatalf("expected code unauthorized, got %q", body.Error.Code)
	}
}

func TestForeignResumeIsForbiddenNotHidden(t *testing.T) {
	router := newTestRouter(t)
	ownerToken := registerUser(t, router, "owner")
	intruderToken := registerUser(t, router, "intruder")
	ownerMaster := masterResumeID(t, router, ownerToken)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+ownerMaster, intruderToken, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d (%s)", resp.Code, resp.Body.String())
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error.Code != "forbidden" {
		t.Fatalf("expected code forbidden, got %q", body.Error.Code)
	}
}

func TestLockedResumeRejectsAttach(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "casey")
	master := masterResumeID(t, router, token)

	eduID := createEducation(t, router, token, master, "School A")
	targeted := createResume(t, router, token, "Frozen")

	resp := doJSON(t, router, http.MethodPatch, "/api/v1/resumes/"+targeted, token, map[string]any{
		"isLocked": true,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("lock: expected status 200, got %d (%s)", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+targeted+"/educations", token, map[string]any{
		"educationId": eduID,
	})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("attach while locked: expected status 403, got %d (%s)", resp.Code, resp.Body.String())
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error.Code != "locked" {
		t.Fatalf("expected code locked, got %q", body.Error.Code)
	}

	// Unlocking reopens the resume for edits.
	resp = doJSON(t, router, http.MethodPatch, "/api/v1/resumes/"+targeted, token, map[string]any{
		"isLocked": false,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("unlock: expected status 200, got %d", resp.Code)
	}
	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+targeted+"/educations", token, map[string]any{
		"educationId": eduID,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("attach after unlock: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}
}

// An edit through the snippet endpoint moves the master's bullet to the new
// version while a placement that pinned the old version keeps serving it.
func TestBulletEditKeepsPinnedVersions(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "casey")
	master := masterResumeID(t, router, token)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+master+"/experiences", token, map[string]any{
		"experience": map[string]any{"company": "Acme", "title": "Engineer"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create experience: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	var expPlacement struct {
		Experience struct {
			ID string `json:"id"`
		} `json:"experience"`
	}
	decodeBody(t, resp, &expPlacement)
	expID := expPlacement.Experience.ID

	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+master+"/experiences/"+expID+"/bullets", token, map[string]any{
		"content": "Cut release time in half",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create bullet: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	var bullet struct {
		LineageID string `json:"lineageId"`
		Version   int64  `json:"version"`
	}
	decodeBody(t, resp, &bullet)
	firstVersion := bullet.Version

	// The edit migrates every placement sitting at the edited version, which
	// right now is only the master's bullet.
	resp = doJSON(t, router, http.MethodPatch, "/api/v1/snippets/"+bullet.LineageID, token, map[string]any{
		"fromVersion": firstVersion,
		"content":     "Cut release time by two thirds",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("edit snippet: expected status 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	var edited struct {
		Version int64 `json:"version"`
	}
	decodeBody(t, resp, &edited)
	if edited.Version <= firstVersion {
		t.Fatalf("expected a newer version, got %d after %d", edited.Version, firstVersion)
	}

	// A later pin of the superseded version sticks: migration only chases
	// placements, never future attaches.
	targeted := createResume(t, router, token, "Targeted")
	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+targeted+"/experiences", token, map[string]any{
		"experienceId": expID,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("attach experience: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+targeted+"/experiences/"+expID+"/bullets", token, map[string]any{
		"lineageId": bullet.LineageID,
		"version":   firstVersion,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("pin bullet: expected status 201, got %d (%s)", resp.Code, resp.Body.String())
	}

	var masterBullets []struct {
		Version int64  `json:"version"`
		Content string `json:"content"`
	}
	resp = doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+master+"/experiences/"+expID+"/bullets", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list master bullets: expected status 200, got %d", resp.Code)
	}
	decodeBody(t, resp, &masterBullets)
	if len(masterBullets) != 1 || masterBullets[0].Version != edited.Version {
		t.Fatalf("expected the master bullet to follow the edit, got %+v", masterBullets)
	}
	if masterBullets[0].Content != "Cut release time by two thirds" {
		t.Fatalf("unexpected master bullet content: %q", masterBullets[0].Content)
	}

	var pinnedBullets []struct {
		Version int64  `json:"version"`
		Content string `json:"content"`
	}
	resp = doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+targeted+"/experiences/"+expID+"/bullets", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list pinned bullets: expected status 200, got %d", resp.Code)
	}
	decodeBody(t, resp, &pinnedBullets)
	if len(pinnedBullets) != 1 || pinnedBullets[0].Version != firstVersion {
		t.Fatalf("expected the pinned bullet to keep version %d, got %+v", firstVersion, pinnedBullets)
	}
	if pinnedBullets[0].Content != "Cut release time in half" {
		t.Fatalf("unexpected pinned bullet content: %q", pinnedBullets[0].Content)
	}
}
