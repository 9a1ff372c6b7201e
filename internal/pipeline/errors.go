package pipeline

// ConfigError is a missing or invalid setting detected before any device
// is opened.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	if e == nil || e.Err == nil {
		return "configuration error"
	}
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DeviceError means the microphone could not be opened or stopped delivering.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	if e == nil || e.Err == nil {
		return "audio device error"
	}
	return "audio device error: " + e.Err.Error()
}

func (e *DeviceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type RecognitionError struct {
	Err error
}

func (e *RecognitionError) Error() string {
	if e == nil || e.Err == nil {
		return "recognition error"
	}
	return "recognition error: " + e.Err.Error()
}

func (e *RecognitionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TranslationError carries the utterance whose translation failed.
type TranslationError struct {
	Text string
	Err  error
}

func (e *TranslationError) Error() string {
	if e == nil || e.Err == nil {
		return "translation error"
	}
	return "translation error: " + e.Err.Error()
}

func (e *TranslationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LogError means the transcript file could not be written.
type LogError struct {
	Path string
	Err  error
}

func (e *LogError) Error() string {
	if e == nil || e.Err == nil {
		return "transcript log error"
	}
	return "transcript log error (" + e.Path + "): " + e.Err.Error()
}

func (e *LogError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
