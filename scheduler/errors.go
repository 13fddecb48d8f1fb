// Copyright 2025 The txsched Authors
// This file is part of the txsched library.
//
// The txsched library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The txsched library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the txsched library. If not, see <http://www.gnu.org/licenses/>.

package scheduler

import "errors"

// ErrWorkerChannelClosed is returned when a send to a worker's ConsumeWork
// channel fails because the channel was already closed: fatal to the
// current pass, but never fatal to
// consensus state: the unset transactions simply remain in the container.
var ErrWorkerChannelClosed = errors.New("scheduler: worker channel closed")
