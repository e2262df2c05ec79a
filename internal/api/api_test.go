package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/erazemk/wastewise/internal/auth"
	"github.com/erazemk/wastewise/internal/market"
	"github.com/erazemk/wastewise/internal/model"
	"github.com/erazemk/wastewise/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *market.Market) {
	t.Helper()
	s := store.NewMemory()
	m := market.New(s)
	router := NewRouter(Deps{
		Market:      m,
		Images:      s.Images,
		Revocations: s.Revocations,
		Sessions:    auth.NewSessions("test-session-secret", false),
		JWTSecret:   testJWTSecret,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, m
}

// do sends a JSON request, optionally with a bearer token, and decodes the
// response into out when it is non-nil.
func do(t *testing.T, client *http.Client, method, url, token string, body, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, url, err)
		}
	}
	return resp
}

// register creates an account and returns it with a bearer token.
func register(t *testing.T, server *httptest.Server, username string) (model.User, string) {
	t.Helper()
	var user model.User
	resp := do(t, nil, "POST", server.URL+"/api/register", "", map[string]string{
		"username": username,
		"password": "password123",
		"name":     strings.ToUpper(username[:1]) + username[1:],
		"email":    username + "@example.com",
	}, &user)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("registering %s: expected 201, got %d", username, resp.StatusCode)
	}

	var tok tokenResponse
	resp = do(t, nil, "POST", server.URL+"/api/token", "", map[string]string{
		"username": username,
		"password": "password123",
	}, &tok)
	if resp.StatusCode != http.StatusOK || tok.Token == "" {
		t.Fatalf("token for %s: status %d", username, resp.StatusCode)
	}
	return user, tok.Token
}

func TestRegisterEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	var raw map[string]any
	resp := do(t, nil, "POST", server.URL+"/api/register", "", map[string]string{
		"username": "alice",
		"password": "password123",
		"name":     "Alice",
		"email":    "alice@example.com",
	}, &raw)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	for _, key := range []string{"password", "passwordHash", "PasswordHash"} {
		if _, ok := raw[key]; ok {
			t.Errorf("response must not contain %q", key)
		}
	}
	if raw["greenPoints"] != float64(0) {
		t.Errorf("expected zero green points, got %v", raw["greenPoints"])
	}

	var body errorBody
	resp = do(t, nil, "POST", server.URL+"/api/register", "", map[string]string{
		"username": "alice",
		"password": "password456",
		"name":     "Other Alice",
		"email":    "other@example.com",
	}, &body)
	if resp.StatusCode != http.StatusBadRequest || body.Message != "Username already exists" {
		t.Errorf("expected duplicate rejection, got %d %q", resp.StatusCode, body.Message)
	}

	body = errorBody{}
	resp = do(t, nil, "POST", server.URL+"/api/register", "", map[string]string{
		"username": "bob",
		"password": "short",
	}, &body)
	if resp.StatusCode != http.StatusBadRequest || body.Message != "Invalid data" || len(body.Errors) == 0 {
		t.Errorf("expected validation errors, got %d %+v", resp.StatusCode, body)
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)
	register(t, server, "alice")

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"valid", map[string]string{"username": "alice", "password": "password123"}, http.StatusOK},
		{"wrong password", map[string]string{"username": "alice", "password": "wrong"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"username": "nobody", "password": "password123"}, http.StatusUnauthorized},
		{"missing fields", map[string]string{"username": "alice"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, nil, "POST", server.URL+"/api/login", "", tt.body, nil)
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestSessionFlow(t *testing.T) {
	server, _ := setupTestServer(t)
	register(t, server, "alice")

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp := do(t, client, "POST", server.URL+"/api/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	var me model.User
	resp = do(t, client, "GET", server.URL+"/api/user", "", nil, &me)
	if resp.StatusCode != http.StatusOK || me.Username != "alice" {
		t.Fatalf("current user: %d %+v", resp.StatusCode, me)
	}

	u, _ := url.Parse(server.URL)
	cookies := jar.Cookies(u)
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	resp = do(t, client, "POST", server.URL+"/api/logout", "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	// Replaying the old cookie must fail once the session is revoked.
	replay, _ := cookiejar.New(nil)
	replay.SetCookies(u, cookies)
	resp = do(t, &http.Client{Jar: replay}, "GET", server.URL+"/api/user", "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestBearerTokenRevokedOnLogout(t *testing.T) {
	server, _ := setupTestServer(t)
	_, token := register(t, server, "alice")

	resp := do(t, nil, "GET", server.URL+"/api/user", token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp = do(t, nil, "POST", server.URL+"/api/logout", token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	resp = do(t, nil, "GET", server.URL+"/api/user", token, nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestUnauthorized(t *testing.T) {
	server, _ := setupTestServer(t)

	for _, path := range []string{"/api/user", "/api/users/1/chats", "/api/chats/1/messages"} {
		var body errorBody
		resp := do(t, nil, "GET", server.URL+path, "", nil, &body)
		if resp.StatusCode != http.StatusUnauthorized || body.Message != "Unauthorized" {
			t.Errorf("%s: expected 401 Unauthorized, got %d %q", path, resp.StatusCode, body.Message)
		}
	}

	resp := do(t, nil, "GET", server.URL+"/api/user", "not-a-token", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for garbage token, got %d", resp.StatusCode)
	}
}

func TestUpdateProfile(t *testing.T) {
	server, _ := setupTestServer(t)
	_, token := register(t, server, "alice")

	var updated model.User
	resp := do(t, nil, "PATCH", server.URL+"/api/user", token, map[string]string{
		"bio":      "Zero waste enthusiast",
		"password": "newpassword1",
	}, &updated)
	if resp.StatusCode != http.StatusOK || updated.Bio != "Zero waste enthusiast" {
		t.Fatalf("update: %d %+v", resp.StatusCode, updated)
	}

	resp = do(t, nil, "POST", server.URL+"/api/login", "", map[string]string{
		"username": "alice",
		"password": "newpassword1",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected login with new password to succeed, got %d", resp.StatusCode)
	}

	resp = do(t, nil, "PATCH", server.URL+"/api/user", token, map[string]string{"email": "nope"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad email, got %d", resp.StatusCode)
	}
}

func TestGetUserEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)
	alice, _ := register(t, server, "alice")

	var got model.User
	resp := do(t, nil, "GET", fmt.Sprintf("%s/api/users/%d", server.URL, alice.ID), "", nil, &got)
	if resp.StatusCode != http.StatusOK || got.Username != "alice" {
		t.Errorf("expected alice, got %d %+v", resp.StatusCode, got)
	}

	resp = do(t, nil, "GET", server.URL+"/api/users/99", "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	resp = do(t, nil, "GET", server.URL+"/api/users/abc", "", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func newItemBody(itemType string) map[string]any {
	body := map[string]any{
		"title":       "Office Chair",
		"description": "Ergonomic chair",
		"category":    "furniture",
		"type":        itemType,
		"location":    "San Francisco, CA",
		"latitude":    37.7749,
		"longitude":   -122.4194,
	}
	if itemType == model.ItemTypeSell {
		body["price"] = 40
	}
	return body
}

func TestItemsAPIFlow(t *testing.T) {
	server, _ := setupTestServer(t)
	alice, aliceToken := register(t, server, "alice")
	bob, bobToken := register(t, server, "bob")

	var item model.Item
	resp := do(t, nil, "POST", server.URL+"/api/items", aliceToken, newItemBody(model.ItemTypeDonate), &item)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	if item.UserID != alice.ID || item.Price != nil || item.Status != model.ItemStatusAvailable {
		t.Errorf("unexpected item: %+v", item)
	}

	var me model.User
	do(t, nil, "GET", server.URL+"/api/user", aliceToken, nil, &me)
	if me.ItemsShared != 1 || me.DonationsMade != 1 || me.GreenPoints != market.DonationBonus {
		t.Errorf("unexpected stats after donation: %+v", me)
	}

	// Listing for somebody else is forbidden.
	other := newItemBody(model.ItemTypeSell)
	other["userId"] = bob.ID
	resp = do(t, nil, "POST", server.URL+"/api/items", aliceToken, other, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}

	var invalid errorBody
	resp = do(t, nil, "POST", server.URL+"/api/items", aliceToken, map[string]any{"title": ""}, &invalid)
	if resp.StatusCode != http.StatusBadRequest || len(invalid.Errors) == 0 {
		t.Errorf("expected validation errors, got %d %+v", resp.StatusCode, invalid)
	}

	itemURL := fmt.Sprintf("%s/api/items/%d", server.URL, item.ID)
	for want := 1; want <= 2; want++ {
		var viewed model.Item
		do(t, nil, "GET", itemURL, "", nil, &viewed)
		if viewed.Views != want {
			t.Errorf("expected %d views, got %d", want, viewed.Views)
		}
	}

	resp = do(t, nil, "PATCH", itemURL, bobToken, map[string]string{"title": "Mine now"}, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner patch, got %d", resp.StatusCode)
	}

	var patched model.Item
	resp = do(t, nil, "PATCH", itemURL, aliceToken, map[string]string{"status": model.ItemStatusReserved}, &patched)
	if resp.StatusCode != http.StatusOK || patched.Status != model.ItemStatusReserved {
		t.Errorf("patch: %d %+v", resp.StatusCode, patched)
	}

	var available []model.Item
	do(t, nil, "GET", server.URL+"/api/items", "", nil, &available)
	if len(available) != 0 {
		t.Errorf("reserved item must not be listed, got %d", len(available))
	}

	var owned []model.Item
	do(t, nil, "GET", fmt.Sprintf("%s/api/users/%d/items", server.URL, alice.ID), "", nil, &owned)
	if len(owned) != 1 {
		t.Errorf("expected 1 owned item, got %d", len(owned))
	}

	resp = do(t, nil, "DELETE", itemURL, bobToken, nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner delete, got %d", resp.StatusCode)
	}
	resp = do(t, nil, "DELETE", itemURL, aliceToken, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	resp = do(t, nil, "GET", itemURL, "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestNearbyItemsQuery(t *testing.T) {
	server, _ := setupTestServer(t)
	_, token := register(t, server, "alice")

	near := newItemBody(model.ItemTypeSell)
	far := newItemBody(model.ItemTypeSell)
	far["latitude"], far["longitude"] = 40.7128, -74.0060
	far["category"] = "kitchen"
	do(t, nil, "POST", server.URL+"/api/items", token, near, nil)
	do(t, nil, "POST", server.URL+"/api/items", token, far, nil)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?latitude=37.78&longitude=-122.41", 1},
		{"?latitude=37.78&longitude=-122.41&radius=5000", 2},
		{"?latitude=37.78", 2},
		{"?category=Kitchen", 1},
		{"?category=All", 2},
		{"?latitude=37.78&longitude=-122.41&radius=NaN", 1},
		{"?latitude=37.78&longitude=-122.41&radius=-3", 1},
		{"?latitude=37.78&longitude=-122.41&radius=Inf", 1},
		{"?latitude=NaN&longitude=0", 2},
		{"?latitude=37.78&longitude=Inf", 2},
		{"?latitude=91&longitude=-122.41", 2},
		{"?latitude=37.78&longitude=-181", 2},
	}
	for _, tt := range tests {
		var items []model.Item
		resp := do(t, nil, "GET", server.URL+"/api/items"+tt.query, "", nil, &items)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", tt.query, resp.StatusCode)
		}
		if len(items) != tt.want {
			t.Errorf("%q: expected %d items, got %d", tt.query, tt.want, len(items))
		}
	}
}

func TestChatScenario(t *testing.T) {
	server, _ := setupTestServer(t)
	alice, aliceToken := register(t, server, "alice")
	bob, bobToken := register(t, server, "bob")
	_, carolToken := register(t, server, "carol")

	var item model.Item
	do(t, nil, "POST", server.URL+"/api/items", bobToken, newItemBody(model.ItemTypeSell), &item)

	chatBody := map[string]any{"userId1": alice.ID, "userId2": bob.ID, "itemId": item.ID}
	var chat model.Chat
	resp := do(t, nil, "POST", server.URL+"/api/chats", aliceToken, chatBody, &chat)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create chat: expected 201, got %d", resp.StatusCode)
	}

	var again model.Chat
	resp = do(t, nil, "POST", server.URL+"/api/chats", bobToken, map[string]any{
		"userId1": bob.ID, "userId2": alice.ID, "itemId": item.ID,
	}, &again)
	if resp.StatusCode != http.StatusOK || again.ID != chat.ID {
		t.Errorf("expected existing chat %d with 200, got %d %d", chat.ID, resp.StatusCode, again.ID)
	}

	resp = do(t, nil, "POST", server.URL+"/api/chats", carolToken, chatBody, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for outsider, got %d", resp.StatusCode)
	}

	var msg model.Message
	resp = do(t, nil, "POST", server.URL+"/api/messages", aliceToken, map[string]any{
		"chatId": chat.ID, "content": "Is the chair still available?",
	}, &msg)
	if resp.StatusCode != http.StatusCreated || msg.SenderID != alice.ID {
		t.Fatalf("send message: %d %+v", resp.StatusCode, msg)
	}
	do(t, nil, "POST", server.URL+"/api/messages", bobToken, map[string]any{
		"chatId": chat.ID, "content": "Yes!",
	}, nil)

	resp = do(t, nil, "POST", server.URL+"/api/messages", carolToken, map[string]any{
		"chatId": chat.ID, "content": "Me too",
	}, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for outsider message, got %d", resp.StatusCode)
	}
	resp = do(t, nil, "POST", server.URL+"/api/messages", aliceToken, map[string]any{
		"chatId": 999, "content": "Hello?",
	}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown chat, got %d", resp.StatusCode)
	}

	var thread []model.Message
	resp = do(t, nil, "GET", fmt.Sprintf("%s/api/chats/%d/messages", server.URL, chat.ID), bobToken, nil, &thread)
	if resp.StatusCode != http.StatusOK || len(thread) != 2 || thread[1].Content != "Yes!" {
		t.Errorf("unexpected thread: %d %+v", resp.StatusCode, thread)
	}
	resp = do(t, nil, "GET", fmt.Sprintf("%s/api/chats/%d/messages", server.URL, chat.ID), carolToken, nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 reading foreign thread, got %d", resp.StatusCode)
	}

	var inbox []market.EnrichedChat
	resp = do(t, nil, "GET", fmt.Sprintf("%s/api/users/%d/chats", server.URL, alice.ID), aliceToken, nil, &inbox)
	if resp.StatusCode != http.StatusOK || len(inbox) != 1 {
		t.Fatalf("inbox: %d %+v", resp.StatusCode, inbox)
	}
	entry := inbox[0]
	if entry.LastMessage == nil || entry.LastMessage.Content != "Yes!" {
		t.Errorf("unexpected last message: %+v", entry.LastMessage)
	}
	if entry.OtherUser == nil || entry.OtherUser.ID != bob.ID || entry.OtherUser.Name != "Bob" {
		t.Errorf("unexpected other user: %+v", entry.OtherUser)
	}
	if entry.Item == nil || entry.Item.ID != item.ID {
		t.Errorf("unexpected item summary: %+v", entry.Item)
	}
	if entry.LastMessageAt == nil || !entry.LastMessageAt.Equal(entry.LastMessage.CreatedAt) {
		t.Errorf("lastMessageAt %v does not match last message", entry.LastMessageAt)
	}

	resp = do(t, nil, "GET", fmt.Sprintf("%s/api/users/%d/chats", server.URL, alice.ID), bobToken, nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 reading another inbox, got %d", resp.StatusCode)
	}

	var viewed model.Item
	do(t, nil, "GET", fmt.Sprintf("%s/api/items/%d", server.URL, item.ID), "", nil, &viewed)
	if viewed.Inquiries != 1 {
		t.Errorf("expected one inquiry, got %d", viewed.Inquiries)
	}
}

func TestCentersAndEvents(t *testing.T) {
	server, m := setupTestServer(t)
	if err := m.Seed(context.Background()); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	var centers []model.DisposalCenter
	do(t, nil, "GET", server.URL+"/api/disposal-centers", "", nil, &centers)
	if len(centers) != 4 {
		t.Errorf("expected 4 centers, got %d", len(centers))
	}

	var furniture []model.DisposalCenter
	do(t, nil, "GET", server.URL+"/api/disposal-centers?type=furniture", "", nil, &furniture)
	if len(furniture) != 1 {
		t.Errorf("expected 1 furniture center, got %d", len(furniture))
	}

	var nearby []model.DisposalCenter
	do(t, nil, "GET", server.URL+"/api/disposal-centers?latitude=37.7749&longitude=-122.4194&radius=2", "", nil, &nearby)
	if len(nearby) != 3 {
		t.Errorf("expected 3 centers within 2km, got %d", len(nearby))
	}

	var center model.DisposalCenter
	resp := do(t, nil, "GET", server.URL+"/api/disposal-centers/1", "", nil, &center)
	if resp.StatusCode != http.StatusOK || center.Name != "GreenTech Recycling Center" {
		t.Errorf("unexpected center: %d %+v", resp.StatusCode, center)
	}
	resp = do(t, nil, "GET", server.URL+"/api/disposal-centers/99", "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}

	var events []model.Event
	do(t, nil, "GET", server.URL+"/api/events", "", nil, &events)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Date.Before(events[i-1].Date) {
			t.Errorf("events not sorted at %d", i)
		}
	}

	var event model.Event
	resp = do(t, nil, "GET", fmt.Sprintf("%s/api/events/%d", server.URL, events[0].ID), "", nil, &event)
	if resp.StatusCode != http.StatusOK || event.Title != events[0].Title {
		t.Errorf("unexpected event: %d %+v", resp.StatusCode, event)
	}
}

func TestImageUpload(t *testing.T) {
	server, _ := setupTestServer(t)
	_, token := register(t, server, "alice")

	img := image.NewRGBA(image.Rect(0, 0, 2048, 1024))
	for x := range 2048 {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var pngData bytes.Buffer
	if err := png.Encode(&pngData, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("image", "photo.png")
	part.Write(pngData.Bytes())
	mw.Close()

	req, _ := http.NewRequest("POST", server.URL+"/api/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	var uploaded imageResponse
	json.NewDecoder(resp.Body).Decode(&uploaded)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if uploaded.Width != 1024 || uploaded.Height != 512 {
		t.Errorf("expected 1024x512, got %dx%d", uploaded.Width, uploaded.Height)
	}

	resp, err = http.Get(server.URL + uploaded.URL)
	if err != nil {
		t.Fatalf("fetching image: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/jpeg" {
		t.Errorf("unexpected image response: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp = do(t, nil, "POST", server.URL+"/api/images", "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials, got %d", resp.StatusCode)
	}
	resp = do(t, nil, "GET", server.URL+"/api/images/01ARZ3NDEKTSV4RRFFQ69G5FAV", "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown image, got %d", resp.StatusCode)
	}
}

func TestDonationChatNotDuplicated(t *testing.T) {
	server, _ := setupTestServer(t)
	alice, aliceToken := register(t, server, "alice")
	bob, bobToken := register(t, server, "bob")

	var item model.Item
	do(t, nil, "POST", server.URL+"/api/items", aliceToken, newItemBody(model.ItemTypeDonate), &item)

	body := map[string]any{"userId1": bob.ID, "userId2": alice.ID, "itemId": item.ID}
	var first, second model.Chat
	resp := do(t, nil, "POST", server.URL+"/api/chats", bobToken, body, &first)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	pair := map[int64]bool{first.UserID1: true, first.UserID2: true}
	if !pair[alice.ID] || !pair[bob.ID] {
		t.Errorf("expected participants alice and bob, got %d and %d", first.UserID1, first.UserID2)
	}
	if first.ItemID == nil || *first.ItemID != item.ID {
		t.Errorf("expected item %d, got %v", item.ID, first.ItemID)
	}

	resp = do(t, nil, "POST", server.URL+"/api/chats", bobToken, body, &second)
	if resp.StatusCode != http.StatusOK || second.ID != first.ID {
		t.Errorf("expected existing chat %d, got %d (status %d)", first.ID, second.ID, resp.StatusCode)
	}
}
