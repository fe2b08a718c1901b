package handlers_test

import (
	"fmt"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/localnerve/reserva/internal/models"
)

// TestAddNumberPhone tests the happy path for phone registration
func TestAddNumberPhone(t *testing.T) {
	srv := newTestServer(t)
	user := srv.createUser(t, "alice", "password123")
	token := srv.sessionFor(t, user)

	resp, err := srv.App.Test(withSession(formRequest("/number-phone/add", url.Values{
		"number_phone": {"555123456"},
	}), token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	assertRedirect(t, resp, "/number-phone")

	var phone models.NumberPhone
	if err := srv.DB.Where("user_id = ?", user.ID).First(&phone).Error; err != nil {
		t.Fatalf("Expected a phone row: %v", err)
	}
	if phone.Number != "555123456" {
		t.Errorf("Expected number 555123456, got %q", phone.Number)
	}
}

// TestAddNumberPhoneSecondAttempt tests that a second registration is
// rejected and leaves the first row alone.
func TestAddNumberPhoneSecondAttempt(t *testing.T) {
	srv := newTestServer(t)
	user := srv.createUser(t, "alice", "password123")
	token := srv.sessionFor(t, user)

	srv.DB.Create(&models.NumberPhone{UserID: user.ID, Number: "555123456"})

	resp, err := srv.App.Test(withSession(formRequest("/number-phone/add", url.Values{
		"number_phone": {"555999999"},
	}), token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	assertRedirect(t, resp, "/number-phone")

	var count int64
	srv.DB.Model(&models.NumberPhone{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 phone row, got %d", count)
	}

	var phone models.NumberPhone
	srv.DB.Where("user_id = ?", user.ID).First(&phone)
	if phone.Number != "555123456" {
		t.Errorf("Expected the first number kept, got %q", phone.Number)
	}
}

// TestAddNumberPhoneTooLong tests the length validation message
func TestAddNumberPhoneTooLong(t *testing.T) {
	srv := newTestServer(t)
	user := srv.createUser(t, "alice", "password123")
	token := srv.sessionFor(t, user)

	resp, err := srv.App.Test(withSession(formRequest("/number-phone/add", url.Values{
		"number_phone": {"0123456789"},
	}), token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "exceeds 9 characters") {
		t.Error("Expected length validation message in response body")
	}
}

// TestUpdateNumberPhoneStranger tests that another user's phone id is
// reported as missing and stays unchanged.
func TestUpdateNumberPhoneStranger(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.createUser(t, "alice", "password123")
	bob := srv.createUser(t, "bob", "password123")

	phone := models.NumberPhone{UserID: alice.ID, Number: "555123456"}
	srv.DB.Create(&phone)

	resp, err := srv.App.Test(withSession(formRequest(
		fmt.Sprintf("/number-phone/%d", phone.NumberPhoneID),
		url.Values{"number_phone": {"666000000"}},
	), srv.sessionFor(t, bob)))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	assertRedirect(t, resp, "/number-phone")

	var unchanged models.NumberPhone
	srv.DB.First(&unchanged, phone.NumberPhoneID)
	if unchanged.Number != "555123456" {
		t.Errorf("Expected number unchanged, got %q", unchanged.Number)
	}
}

// TestUpdateNumberPhoneOwner tests the owner's update path
func TestUpdateNumberPhoneOwner(t *testing.T) {
	srv := newTestServer(t)
	user := srv.createUser(t, "alice", "password123")
	token := srv.sessionFor(t, user)

	phone := models.NumberPhone{UserID: user.ID, Number: "555123456"}
	srv.DB.Create(&phone)

	resp, err := srv.App.Test(withSession(formRequest(
		fmt.Sprintf("/number-phone/%d", phone.NumberPhoneID),
		url.Values{"number_phone": {"666000000"}},
	), token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	assertRedirect(t, resp, "/number-phone")

	var updated models.NumberPhone
	srv.DB.First(&updated, phone.NumberPhoneID)
	if updated.Number != "666000000" {
		t.Errorf("Expected number 666000000, got %q", updated.Number)
	}
}

// TestDeleteNumberPhone tests deletion through the form route
func TestDeleteNumberPhone(t *testing.T) {
	srv := newTestServer(t)
	user := srv.createUser(t, "alice", "password123")
	token := srv.sessionFor(t, user)

	phone := models.NumberPhone{UserID: user.ID, Number: "555123456"}
	srv.DB.Create(&phone)

	resp, err := srv.App.Test(withSession(formRequest(
		fmt.Sprintf("/number-phone/%d/delete", phone.NumberPhoneID), url.Values{},
	), token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	assertRedirect(t, resp, "/number-phone")

	var count int64
	srv.DB.Model(&models.NumberPhone{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected 0 phone rows, got %d", count)
	}
}

// TestReadNumberPhoneSoftAnonymous tests the soft read page for
// anonymous visitors.
func TestReadNumberPhoneSoftAnonymous(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.App.Test(httptest.NewRequest("GET", "/number-phone", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "No phone number registered.") {
		t.Error("Expected the empty message in response body")
	}
}
