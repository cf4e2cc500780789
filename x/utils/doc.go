// Package utils provides decorators shared by all message handlers.
package utils
