package session

// LocationError is the reason a geolocation request failed
type LocationError string

const (
	LocationUnsupported         LocationError = "unsupported"
	LocationPermissionDenied    LocationError = "permission_denied"
	LocationPositionUnavailable LocationError = "position_unavailable"
	LocationTimeout             LocationError = "timeout"
)

const locationFailedPrefix = "위치 정보를 가져오는 데 실패했어요. "

// Message returns the text shown to the reader
func (e LocationError) Message() string {
	switch e {
	case LocationUnsupported:
		return "이 브라우저에서는 위치 서비스를 지원하지 않아요."
	case LocationPermissionDenied:
		return locationFailedPrefix + "위치 정보 접근 권한을 허용해주세요."
	case LocationPositionUnavailable:
		return locationFailedPrefix + "현재 위치를 확인할 수 없어요."
	case LocationTimeout:
		return locationFailedPrefix + "요청 시간이 초과되었어요."
	default:
		return locationFailedPrefix + UnknownErrorMessage
	}
}
