// version.go
package version

import "fmt"

// AppName holds the name of the client library
var AppName = "jamf-classes"

// Version holds the current version of the client library
var Version = "2.0.0"

// GetAppName returns the name of the client library
func GetAppName() string {
	return AppName
}

// GetVersion returns the current version of the client library
func GetVersion() string {
	return Version
}

// GetUserAgentHeader returns the User-Agent value sent with every request
func GetUserAgentHeader() string {
	return fmt.Sprintf("%s/%s", AppName, Version)
}
