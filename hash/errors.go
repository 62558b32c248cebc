package hash

import "errors"

var (
	// ErrInvalidK is returned when a Family is constructed with a
	// non-positive or unreasonably large k.
	ErrInvalidK = errors.New("hash: invalid k")

	// ErrInvalidNumHash is returned when a Family is constructed with a
	// non-positive hash count.
	ErrInvalidNumHash = errors.New("hash: invalid hash count")

	// ErrInvalidAlphabet names the condition of a window that contains a
	// byte outside {A,C,G,T} (case-insensitive). Iterator.Start reports
	// this case only by returning false; it does not return this error.
	ErrInvalidAlphabet = errors.New("hash: window contains a non-ACGT base")

	// ErrWindowTooShort names the condition end-begin < k. Iterator.Start
	// reports this case only by returning false; it does not return this
	// error.
	ErrWindowTooShort = errors.New("hash: window shorter than k")
)
