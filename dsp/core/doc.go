// Package core holds the small shared pieces every unit needs: host
// processing settings with their defaults and numeric helpers.
package core
