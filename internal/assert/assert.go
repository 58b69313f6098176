// Package assert has helpers to turn errors into panics, for code paths
// where a failure is a programming or setup error (examples, test setup).
package assert

func Must1[T any](v T, err error) T {
	Must(err)
	return v
}

func Must(err error) {
	if err != nil {
		panic(err)
	}
}
