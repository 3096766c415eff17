package test

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestGetProfile(t *testing.T) {
	app := CreateTestApp()

	token, userID := RegisterAndLogin(t, app, "profile")

	resp := Request(t, app, "GET", "/api/user/profile", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	result := Decode(t, resp)
	data := result["data"].(map[string]interface{})
	if int(data["id"].(float64)) != userID {
		t.Errorf("Expected profile id %d, got %v", userID, data["id"])
	}
	if data["name"] != "profile" {
		t.Errorf("Expected name %q, got %v", "profile", data["name"])
	}
}

func TestUpdateProfileName(t *testing.T) {
	app := CreateTestApp()

	token, _ := RegisterAndLogin(t, app, "rename")

	resp := Request(t, app, "PUT", "/api/user/profile", token, map[string]string{
		"name": "Renamed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	result := Decode(t, resp)
	data := result["data"].(map[string]interface{})
	if data["name"] != "Renamed" {
		t.Errorf("Expected updated name, got %v", data["name"])
	}
	// Email was not in the payload and must be untouched
	if data["email"] == "" || data["email"] == nil {
		t.Errorf("Expected email to survive a partial update")
	}
}

func TestUpdateProfilePassword(t *testing.T) {
	app := CreateTestApp()

	email := fmt.Sprintf("passchange_%d@example.com", time.Now().UnixNano())
	resp := Request(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     "Pass Change",
		"email":    email,
		"password": "oldsecret",
	})
	resp.Body.Close()

	resp = Request(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "oldsecret",
	})
	token := Decode(t, resp)["data"].(map[string]interface{})["token"].(string)

	resp = Request(t, app, "PUT", "/api/user/profile", token, map[string]string{
		"password": "newsecret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 updating password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Old password no longer works
	resp = Request(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "oldsecret",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 with old password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// New password does
	resp = Request(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "newsecret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with new password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
