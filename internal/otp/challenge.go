// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

// Package otp drives the four-digit email verification flow started by
// a successful registration.
package otp

import (
	"strings"
	"time"

	"github.com/ManileeDev/clientpulse/internal/platform/constants"
)

// # Challenge

// Challenge is the verification state for one pending registration:
// the digit slots, the focused slot, and the resend cooldown deadline.
// It is not safe for concurrent use; the owning [Registry] serializes
// access.
type Challenge struct {
	email          string
	digits         [constants.OTPLength]string
	focus          int
	resendDeadline time.Time
	expiresAt      time.Time

	now func() time.Time
}

/*
NewChallenge starts a verification challenge for the given email.

The resend cooldown begins immediately, because registration already
dispatched the first code.

Parameters:
  - email: the address the code was sent to.
  - now: clock function, injectable for tests.

Returns:
  - *Challenge: an empty challenge with the cooldown running.
*/
func NewChallenge(email string, now func() time.Time) *Challenge {
	if now == nil {
		now = time.Now
	}
	moment := now()
	return &Challenge{
		email:          email,
		now:            now,
		resendDeadline: moment.Add(constants.ResendCooldown),
		expiresAt:      moment.Add(constants.ChallengeTTL),
	}
}

// Email returns the address under verification.
func (challenge *Challenge) Email() string { return challenge.email }

// Focus returns the index of the slot that should receive input next.
func (challenge *Challenge) Focus() int { return challenge.focus }

// Digits returns a copy of the current slot values.
func (challenge *Challenge) Digits() []string {
	return append([]string(nil), challenge.digits[:]...)
}

// # Input Handling

/*
Input writes a value into one digit slot.

Only a single numeric rune is accepted; anything else leaves the slot
untouched. A successful write advances focus to the next slot, except
from the last slot, which keeps focus so the submit control stays
reachable.

Parameters:
  - index: slot position, 0-based.
  - value: the typed value, at most one digit.

Returns:
  - bool: whether the slot changed.
*/
func (challenge *Challenge) Input(index int, value string) bool {
	if index < 0 || index >= constants.OTPLength {
		return false
	}
	if len(value) > 1 || !isDigit(value) {
		return false
	}

	challenge.digits[index] = value
	if value != "" && index < constants.OTPLength-1 {
		challenge.focus = index + 1
	} else {
		challenge.focus = index
	}
	return true
}

/*
Backspace handles a delete keystroke on one slot.

A filled slot is cleared in place. An already-empty slot moves focus
back one position instead, so a held backspace walks the code right to
left.

Parameters:
  - index: slot position, 0-based.
*/
func (challenge *Challenge) Backspace(index int) {
	if index < 0 || index >= constants.OTPLength {
		return
	}

	if challenge.digits[index] != "" {
		challenge.digits[index] = ""
		challenge.focus = index
		return
	}
	if index > 0 {
		challenge.focus = index - 1
	}
}

// Code joins the digit slots into the submittable code.
func (challenge *Challenge) Code() string {
	return strings.Join(challenge.digits[:], "")
}

// CanSubmit reports whether every slot holds a digit.
func (challenge *Challenge) CanSubmit() bool {
	for _, digit := range challenge.digits {
		if digit == "" {
			return false
		}
	}
	return true
}

// # Resend Cooldown

// Remaining returns the whole seconds left on the resend cooldown,
// rounded up so the countdown never shows zero while still blocked.
func (challenge *Challenge) Remaining() int {
	left := challenge.resendDeadline.Sub(challenge.now())
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// CanResend reports whether the cooldown has elapsed.
func (challenge *Challenge) CanResend() bool {
	return !challenge.now().Before(challenge.resendDeadline)
}

// ResetCooldown restarts the countdown and clears the entered digits
// after a new code was dispatched.
func (challenge *Challenge) ResetCooldown() {
	challenge.resendDeadline = challenge.now().Add(constants.ResendCooldown)
	challenge.digits = [constants.OTPLength]string{}
	challenge.focus = 0
}

// Expired reports whether the challenge outlived its lifetime.
func (challenge *Challenge) Expired() bool {
	return challenge.now().After(challenge.expiresAt)
}

func isDigit(value string) bool {
	if value == "" {
		return true
	}
	return value[0] >= '0' && value[0] <= '9'
}
