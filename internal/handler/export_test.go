package handler

var UnwrapMessage = unwrapMessage
