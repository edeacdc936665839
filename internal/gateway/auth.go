// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package gateway

import (
	"context"
	"fmt"
	"strconv"
)

// # Identity Payloads

// User is the account payload the backend returns on login.
// The `_id` key follows the backend's document-store convention.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SignupInput is the registration payload.
type SignupInput struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SignupResult is the registration response. A successful signup with
// OTPSent=true means a verification code was emailed and the verification
// flow must be entered before the account can log in.
type SignupResult struct {
	Success bool   `json:"success"`
	OTPSent bool   `json:"otpSent"`
	Message string `json:"message"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the authenticated user and the opaque bearer token.
type LoginResult struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// # Auth API

// AuthAPI groups the backend's authentication operations.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI constructs an [AuthAPI] over the shared client.
func NewAuthAPI(client *Client) AuthAPI {
	return AuthAPI{client: client}
}

/*
Signup registers a new account and triggers the OTP email.

POST /signup

Returns:
  - *SignupResult: success + otpSent flags and the backend message
  - error: Upstream rejection or transport failure
*/
func (api AuthAPI) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	result := &SignupResult{}
	if err := api.client.post(ctx, "/signup", input, result); err != nil {
		return nil, err
	}
	return result, nil
}

/*
Login exchanges credentials for a user payload and bearer token.

POST /login
*/
func (api AuthAPI) Login(ctx context.Context, credentials Credentials) (*LoginResult, error) {
	result := &LoginResult{}
	if err := api.client.post(ctx, "/login", credentials, result); err != nil {
		return nil, err
	}
	return result, nil
}

/*
ValidateOTP submits a completed verification code.

POST /validate-otp

Description: The backend expects the code as a number, so the 4 collected
digit strings are joined and converted before the call.
*/
func (api AuthAPI) ValidateOTP(ctx context.Context, email, code string) (*StatusResult, error) {
	numeric, err := strconv.Atoi(code)
	if err != nil {
		return nil, fmt.Errorf("gateway_otp_not_numeric: %w", err)
	}

	result := &StatusResult{}
	payload := struct {
		Email string `json:"email"`
		OTP   int    `json:"otp"`
	}{Email: email, OTP: numeric}

	if err := api.client.post(ctx, "/validate-otp", payload, result); err != nil {
		return nil, err
	}
	return result, nil
}

/*
GenerateOTP asks the backend to email a fresh verification code.

POST /generate-otp

Description: The backend signals success either with success:true or with
the literal message "OTP has been generated"; ResentOK folds both.
*/
func (api AuthAPI) GenerateOTP(ctx context.Context, email string) (*StatusResult, error) {
	result := &StatusResult{}
	payload := struct {
		Email string `json:"email"`
	}{Email: email}

	if err := api.client.post(ctx, "/generate-otp", payload, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ResentOK reports whether a GenerateOTP response means a code was sent.
func ResentOK(result *StatusResult) bool {
	return result != nil && (result.Success || result.Message == "OTP has been generated")
}
