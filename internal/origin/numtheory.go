package origin

import (
	"fmt"
	"math/big"
	"sort"
)

var bigOne = big.NewInt(1)

// LCM returns the least common multiple of values. It is 1 for no values.
func LCM(values ...*big.Int) *big.Int {
	out := big.NewInt(1)
	gcd := new(big.Int)
	for _, v := range values {
		if v.Sign() == 0 {
			return new(big.Int)
		}
		gcd.GCD(nil, nil, out, new(big.Int).Abs(v))
		out.Mul(out, new(big.Int).Quo(new(big.Int).Abs(v), gcd))
	}
	return out
}

// Triangular returns n*(n+1)/2.
func Triangular(n *big.Int) *big.Int {
	t := new(big.Int).Add(n, bigOne)
	t.Mul(t, n)
	return t.Rsh(t, 1)
}

// NextPrime returns the smallest prime greater than p.
func NextPrime(p int64) int64 {
	if p < 2 {
		return 2
	}
	for c := p + 1; ; c++ {
		if isPrime(c) {
			return c
		}
	}
}

func isPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := int64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// Factor is a prime raised to Exp.
type Factor struct {
	Prime *big.Int
	Exp   int
}

// Factorize splits n into ascending prime factors by trial division.
// Once the remainder is prime it is taken as the last factor. n must be
// positive; 1 has no factors.
func Factorize(n *big.Int) ([]Factor, error) {
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s is not a positive integer", ErrFactorization, n)
	}

	rest := new(big.Int).Set(n)
	var factors []Factor
	q, r := new(big.Int), new(big.Int)

	for prime := NextPrime(1); rest.Cmp(bigOne) != 0; prime = NextPrime(prime) {
		if rest.ProbablyPrime(20) {
			factors = append(factors, Factor{Prime: new(big.Int).Set(rest), Exp: 1})
			break
		}

		p := big.NewInt(prime)
		if p.Cmp(rest) > 0 {
			return nil, fmt.Errorf("%w: remainder %s of %s", ErrFactorization, rest, n)
		}

		exp := 0
		for {
			q.QuoRem(rest, p, r)
			if r.Sign() != 0 {
				break
			}
			rest.Set(q)
			exp++
		}
		if exp > 0 {
			factors = append(factors, Factor{Prime: p, Exp: exp})
		}
	}
	return factors, nil
}

// Divisors returns every product of a non-empty sub-multiset of factors,
// i.e. every divisor greater than one, in ascending order.
func Divisors(factors []Factor) []*big.Int {
	divs := []*big.Int{big.NewInt(1)}
	for _, f := range factors {
		next := make([]*big.Int, 0, len(divs)*(f.Exp+1))
		for _, d := range divs {
			power := new(big.Int).Set(d)
			next = append(next, power)
			for e := 1; e <= f.Exp; e++ {
				power = new(big.Int).Mul(power, f.Prime)
				next = append(next, power)
			}
		}
		divs = next
	}

	sort.Slice(divs, func(i, j int) bool { return divs[i].Cmp(divs[j]) < 0 })
	return divs[1:]
}
