// controller/controllers.go
package controller

import "github.com/dev-rajatverma/doorward/service"

type Controllers struct {
	Access *AccessController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Access: NewAccessController(services.Access),
	}
}
