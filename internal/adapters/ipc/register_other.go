//go:build !linux

package ipc

func register(appID, steamID string) (string, error) {
	return "", nil
}
