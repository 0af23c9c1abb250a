// Package domain holds the scheduling entities: cards, review sessions and
// review statistics, plus the validation errors they raise. The SM-2
// algorithm lives in the srs subpackage.
package domain
