package testutils

import (
	. "github.com/onsi/gomega"
)

func Must[T any](o T, err error) T {
	ExpectWithOffset(1, err).To(Succeed())
	return o
}

func Must2[T, V any](o T, v V, err error) (T, V) {
	ExpectWithOffset(1, err).To(Succeed())
	return o, v
}

func MustBeSuccessful(err error) {
	ExpectWithOffset(1, err).To(Succeed())
}
