package constants

// ImageFormat holds the file extension assigned to a sniffed binary payload.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpg"
	FormatWEBP ImageFormat = "webp"
	FormatBin  ImageFormat = "bin" // binary payload with no recognized signature
)
