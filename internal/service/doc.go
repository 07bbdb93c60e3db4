// Package service provides the provider registry.
//
// Every application pane is a Provider: it declares a Service definition
// (tools, parameters, capabilities) and executes tools through a uniform
// contract. The registry handles registration, listing, keyword-based
// discovery and tool dispatch by "service.tool" id.
package service
