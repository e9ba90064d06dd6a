/*
Package stocksdk is a client for the stockbook inventory and sales API.

# Overview

A Client owns one session (user id, access token, refresh token) held in a
SessionStore, and exposes typed calls for every endpoint:

	client, err := stocksdk.NewClient("https://shop.example.com/api/", store)

	_, err = client.Login(ctx, stocksdk.LoginRequest{Username: "a", Password: "p"})

	items, err := client.ListStock(ctx)

# Session Gateway

Every call other than Login, Register and Refresh goes through a transport
that reads the session at dispatch time and sets

	Authorization: Bearer <access token>

When the API answers 401 and a refresh token is stored, the gateway makes
exactly one refresh attempt:

  - on success the request is sent once more with the new token, and that
    response is returned whatever it is
  - on failure the session is cleared and the original 401 is returned

Refreshes are serialized, so a retried request is never sent before its
refresh completes. Request bodies built by this package are replayable;
custom bodies without GetBody fail with ErrBodyNotReplayable, and no refresh
is spent on them.

Token endpoints bypass the gateway, so a rejected refresh never triggers
another refresh.

# Errors

Non-success responses become *APIError, with StatusCode, Detail and Fields
filled from whichever error shape the API used:

	var apiErr *stocksdk.APIError
	if errors.As(err, &apiErr) {
		fmt.Println(apiErr.StatusCode, apiErr.Detail)
	}

	if stocksdk.IsUnauthorized(err) {
		// session is gone, log in again
	}

Obviously invalid input is rejected before any request with *ValidationError.

# Session Storage

MemoryStore keeps the session for the life of the process. Persistent
drivers live outside this package and only need to implement SessionStore.
*/
package stocksdk
