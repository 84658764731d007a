// Package grid derives the hyperparameter grid swept for each dataset:
// tree counts crossed with feature-subset size candidates.
package grid
