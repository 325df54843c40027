// Package mocks provides in-memory implementations of the store interfaces
// and recording fakes for the event and scheduler interfaces, shared by the
// service and API tests.
package mocks
