//go:build !unix

package osfilesystem

func isEXDEV(err error) bool {
	return false
}
