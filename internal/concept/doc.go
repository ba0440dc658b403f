// Package concept defines the candidate short-form idea carried through the
// pipeline, its script fragments, and its terminal status lifecycle.
package concept
