// Package interfaces holds compile-time interface implementation checks and
// nothing else. Importing it is never necessary.
package interfaces
