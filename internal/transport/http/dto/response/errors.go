package response

import createsvc "pixelnow/internal/services/create_service"

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrPinNotFound = ErrorResponse{
		Status:  "error",
		Error:   "pin_not_found",
		Details: "No pin with this id",
	}

	ErrPromptRequired = ErrorResponse{
		Status:  "error",
		Error:   "prompt_required",
		Details: createsvc.FailureMessage,
	}

	ErrGenerationInProgress = ErrorResponse{
		Status:  "error",
		Error:   "generation_in_progress",
		Details: "Wait for the current image to finish",
	}

	ErrGenerationFailed = ErrorResponse{
		Status:  "error",
		Error:   "generation_failed",
		Details: createsvc.FailureMessage,
	}

	ErrSessionUnavailable = ErrorResponse{
		Status:  "error",
		Error:   "session_unavailable",
		Details: "Could not start a session",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
