// Package mocks provides hand-written test doubles for the store interfaces.
// Each mock returns its default fields unless a Fn override is set.
package mocks
