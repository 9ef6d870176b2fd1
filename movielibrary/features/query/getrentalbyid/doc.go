// Package getrentalbyid implements the Get Rental By ID query.
package getrentalbyid
