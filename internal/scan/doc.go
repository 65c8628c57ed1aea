// Package scan discovers publishable items in a scene document.
package scan
