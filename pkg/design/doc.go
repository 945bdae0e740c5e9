// Package design defines the core data model for the cabinet engine:
// parts, cabinets, materials and the in-memory scene store that the
// lifecycle operations and the history engine mutate.
package design
