package ssf

import "github.com/sartorproj/goseats/polynomial"

func poly(c ...float64) polynomial.Polynomial {
	return polynomial.Of(c...)
}
