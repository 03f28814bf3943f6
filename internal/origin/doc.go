// Package origin predicts where a turtle spiral can close without
// simulating it.
//
// A spiral with increment theta turns by theta*n at step n, so after s steps
// its heading is theta*s*(s+1)/2 (mod 360). The [Estimator] decomposes theta
// greedily into elementary rotations 360/q taken from the quotient [Table],
// combines the quotients into a cycle length, and derives the step counts at
// which the heading returns to zero:
//
//   - [DecimalPlaces]: bounds which table entries are fine enough for theta
//   - [Estimator.Estimate]: dominant angles, cycle length, upper limit and
//     every divisor of the upper limit that also closes the heading
//
// # Open question
//
// The upper limit lcm*required_cycles has always dominated the step count at
// which simulated spirals actually return home, but no proof exists. The
// candidate set is a set of plausible closures, not guaranteed ones.
package origin
