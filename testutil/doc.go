// Package testutil provides helpers for constructing test key
// material, encrypted submissions and timer recorders used across the
// package tests.
package testutil
