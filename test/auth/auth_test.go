package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tindev/tindev-app/internal/entity"
	"github.com/tindev/tindev-app/pkg/http_util"
	helper_test "github.com/tindev/tindev-app/test/helper"
)

var globalResources *helper_test.TestServerResources

func TestMain(m *testing.M) {
	resources, err := helper_test.SetupTestServer(context.TODO())
	var code int

	if err != nil {
		log.Printf("Failed to set up test server: %s", err)
		code = 1
	} else {
		globalResources = resources
		code = m.Run()
	}

	resources.CleanupTestServer()
	os.Exit(code)
}

func TestSignUp(t *testing.T) {
	reqBody := entity.CreateUserRequest{
		Name:     "testname",
		Username: "testuser",
		Password: "password123",
		Email:    "test@example.com",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(globalResources.BaseURL()+"/v1/auth/sign-up", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignIn(t *testing.T) {
	reqBody := entity.SignInRequest{
		Email:    "asd@asd.com",
		Username: "testuser123",
		Password: "password123",
	}

	helper_test.SignUpUser(t, globalResources.BaseURL(), reqBody.Username, reqBody.Password, reqBody.Email)

	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(globalResources.BaseURL()+"/v1/auth/sign-in", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response, err := http_util.DecodeBody(bodyBytes, http_util.HTTPResponse[entity.SignInResponse]{})
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	assert.NotEmpty(t, response.Data.Token)
	assert.NotZero(t, response.Data.ID)
}

func TestSignInWrongPassword(t *testing.T) {
	helper_test.SignUpUser(t, globalResources.BaseURL(), "wrongpass", "password123", "wrongpass@example.com")

	body, _ := json.Marshal(entity.SignInRequest{
		Email:    "wrongpass@example.com",
		Username: "wrongpass",
		Password: "not-the-password",
	})

	resp, err := http.Post(globalResources.BaseURL()+"/v1/auth/sign-in", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
