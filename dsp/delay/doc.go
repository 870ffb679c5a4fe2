// Package delay provides a block-based delay unit.
//
// The unit holds incoming samples back until the configured delay plus one
// host block has accumulated, then releases them block by block. The
// effective delay is therefore quantised up to a whole number of host
// blocks.
package delay
