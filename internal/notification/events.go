package notification

import (
	"context"
	"fmt"

	"almastore-be/internal/logger"
	"almastore-be/internal/order"
	"almastore-be/internal/utils"

	"go.uber.org/zap"
)

// OrderNotifier turns committed order transitions into a notification for
// the order owner. It satisfies order.EventPublisher.
type OrderNotifier struct {
	svc Service
}

func NewOrderNotifier(svc Service) *OrderNotifier {
	return &OrderNotifier{svc: svc}
}

func (n *OrderNotifier) Publish(ctx context.Context, ev order.Event) error {
	p := PayloadForOrderEvent(ev)

	if _, err := n.svc.Notify(ctx, SingleUser(ev.UserID), p); err != nil {
		logger.FromCtx(ctx).Warn("order notification not created",
			zap.String("order_id", ev.OrderID.String()),
			zap.String("to", string(ev.To)),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// PayloadForOrderEvent builds the customer-facing copy for a transition.
func PayloadForOrderEvent(ev order.Event) Payload {
	ref := utils.ShortRef(ev.OrderID)
	url := utils.OrderActionURL(ev.OrderID)

	p := Payload{
		Category:  CategoryOrder,
		ActionURL: &url,
	}

	switch ev.To {
	case order.StatusPaid:
		p.Title = "Pembayaran Diterima"
		p.Message = fmt.Sprintf("Pembayaran untuk pesanan #%s telah kami terima.", ref)
	case order.StatusProcessing:
		p.Title = "Pesanan Diproses"
		p.Message = fmt.Sprintf("Pesanan #%s sedang kami siapkan.", ref)
	case order.StatusShipped:
		p.Title = "Pesanan Dikirim"
		p.Message = fmt.Sprintf("Pesanan #%s telah dikirim", ref)
		if courier := utils.PtrString(ev.Courier); courier != "" {
			p.Message += fmt.Sprintf(" via %s", courier)
		}
		if resi := utils.PtrString(ev.TrackingNumber); resi != "" {
			p.Message += fmt.Sprintf(". Resi: %s", resi)
		}
		p.Message += "."
	case order.StatusCompleted:
		if ev.Actor == order.ActorSystem {
			p.Title = "Pesanan Selesai Otomatis"
			p.Message = fmt.Sprintf(
				"Pesanan #%s telah otomatis diselesaikan karena sudah melewati batas waktu konfirmasi penerimaan.",
				ref,
			)
		} else {
			p.Title = "Pesanan Selesai"
			p.Message = fmt.Sprintf("Pesanan #%s telah selesai. Terima kasih telah berbelanja!", ref)
		}
	case order.StatusCancelled:
		p.Title = "Pesanan Dibatalkan"
		p.Message = fmt.Sprintf("Pesanan #%s telah dibatalkan.", ref)
	case order.StatusReturnRequested:
		p.Title = "Pengajuan Pengembalian Diterima"
		p.Message = fmt.Sprintf("Pengajuan pengembalian untuk pesanan #%s sedang kami tinjau.", ref)
	case order.StatusReturnRejected:
		p.Title = "Pengembalian Ditolak"
		p.Message = fmt.Sprintf("Pengajuan pengembalian untuk pesanan #%s ditolak.", ref)
	case order.StatusRefunded:
		p.Title = "Dana Dikembalikan"
		p.Message = fmt.Sprintf("Dana untuk pesanan #%s telah dikembalikan.", ref)
	default:
		p.Title = "Status Pesanan Diperbarui"
		p.Message = fmt.Sprintf("Status pesanan #%s kini %s.", ref, ev.To)
	}

	return p
}
