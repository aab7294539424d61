package paxos

// MajorityThreshold returns the minimal quorum size for a cluster of n
// members: floor(n/2) + 1. Any two quorums of this size intersect, which is
// what makes promise and acceptance counts safe to act on.
func MajorityThreshold(n int) int {
	return n/2 + 1
}
