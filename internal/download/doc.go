package download

// Package download implements the per-request lifecycle around the external
// tool's download mode: transfer sessions that pipe or stage the muxed
// output, and the one-way progress stream that watches a parallel invocation's
// diagnostic output. Each session owns exactly one process and guarantees it
// is terminated on every exit path.
