// AngelaMos | 2026
// dto.go

package catalog

type CreateServiceRequest struct {
	ServiceName     string `json:"service_name"     validate:"required,min=1,max=255"`
	InstallationCmd string `json:"installation_cmd" validate:"required,min=1,max=1024"`
}

type UpdateServiceRequest struct {
	ServiceName     *string `json:"service_name,omitempty"     validate:"omitempty,min=1,max=255"`
	InstallationCmd *string `json:"installation_cmd,omitempty" validate:"omitempty,min=1,max=1024"`
}

type ServiceResponse struct {
	ID              int64  `json:"id"`
	ServiceName     string `json:"service_name"`
	InstallationCmd string `json:"installation_cmd"`
}

type CreateServiceResponse struct {
	Message   string `json:"message"`
	ServiceID int64  `json:"service_id"`
}

type UpdateServiceResponse struct {
	ServiceID int64  `json:"service_id"`
	Message   string `json:"message"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func ToServiceResponse(s *ServiceRecord) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		ServiceName:     s.ServiceName,
		InstallationCmd: s.InstallationCmd,
	}
}

func ToServiceResponseList(records []ServiceRecord) []ServiceResponse {
	responses := make([]ServiceResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToServiceResponse(&records[i]))
	}
	return responses
}
