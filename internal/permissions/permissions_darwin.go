//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework AVFoundation
#import <AVFoundation/AVFoundation.h>

int checkCameraPermission() {
    AVAuthorizationStatus status = [AVCaptureDevice authorizationStatusForMediaType:AVMediaTypeVideo];
    return (int)status;
}

void requestCameraPermission() {
    [AVCaptureDevice requestAccessForMediaType:AVMediaTypeVideo completionHandler:^(BOOL granted) {}];
}
*/
import "C"

import "fmt"

const (
	PermissionNotDetermined = 0
	PermissionRestricted    = 1
	PermissionDenied        = 2
	PermissionAuthorized    = 3
)

// CheckCamera returns the current camera permission status
func CheckCamera() int {
	return int(C.checkCameraPermission())
}

// RequestCamera triggers the system camera permission dialog
func RequestCamera() {
	C.requestCameraPermission()
}

// EnsurePermissions asks for camera access when it was never decided and
// fails when access is denied or restricted.
func EnsurePermissions() error {
	switch CheckCamera() {
	case PermissionAuthorized:
		return nil
	case PermissionNotDetermined:
		// The prompt is asynchronous; the first open will fail until the
		// user answers, which surfaces as an open error.
		RequestCamera()
		return nil
	default:
		fmt.Println("⚠️  Camera permission required")
		fmt.Println("   Go to: System Settings → Privacy & Security → Camera")
		return fmt.Errorf("camera permission not granted")
	}
}
