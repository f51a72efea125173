// Package jsname holds the naming rules of the script output: identifier
// legality, reserved words, case conversion, the compact number encoding
// used for minimized names and collision-free name generation.
package jsname
